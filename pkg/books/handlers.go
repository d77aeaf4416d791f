package books

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/copies"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
)

type handler struct {
	bookService *Service
	now         func() time.Time
}

type bookResponse struct {
	*models.Book
	DisplayGenre string `json:"display_genre"`
}

type bookDetailResponse struct {
	bookResponse
	Instances []copies.Response `json:"instances"`
}

func newBookResponse(book *models.Book) bookResponse {
	return bookResponse{book, book.DisplayGenre()}
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.bookService.ListBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	result := make([]bookResponse, len(books))
	for i, b := range books {
		result[i] = newBookResponse(b)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, h.detail(book)))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:      params.Title,
		AuthorID:   params.AuthorID,
		Summary:    params.Summary,
		ISBN:       params.ISBN,
		LanguageID: params.LanguageID,
	}
	if err := h.bookService.CreateBook(ctx, book, CreateBookOptions{GenreIDs: params.GenreIDs}); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("created book", logger.Data{"book_id": book.ID, "title": book.Title})

	book, err := h.bookService.RetrieveBook(ctx, book.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, h.detail(book)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBookOptions{Columns: []string{}, GenreIDs: params.GenreIDs}
	if params.Title != nil {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.AuthorID != nil {
		book.AuthorID = params.AuthorID
		if *params.AuthorID == 0 {
			book.AuthorID = nil
		}
		opts.Columns = append(opts.Columns, "author_id")
	}
	if params.Summary != nil {
		book.Summary = *params.Summary
		opts.Columns = append(opts.Columns, "summary")
	}
	if params.ISBN != nil {
		book.ISBN = *params.ISBN
		opts.Columns = append(opts.Columns, "isbn")
	}
	if params.LanguageID != nil {
		book.LanguageID = params.LanguageID
		if *params.LanguageID == 0 {
			book.LanguageID = nil
		}
		opts.Columns = append(opts.Columns, "language_id")
	}

	if err := h.bookService.UpdateBook(ctx, book, opts); err != nil {
		return errors.WithStack(err)
	}

	book, err = h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, h.detail(book)))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("deleted book", logger.Data{"book_id": id})

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) detail(book *models.Book) bookDetailResponse {
	instances := copies.NewResponses(book.Instances, h.now())
	book.Instances = nil
	return bookDetailResponse{newBookResponse(book), instances}
}
