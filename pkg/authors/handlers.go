package authors

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
)

type handler struct {
	authorService *Service
}

type authorResponse struct {
	*models.Author
	Name string `json:"name"`
}

type authorDetailResponse struct {
	authorResponse
	Books []*models.Book `json:"books"`
}

func newAuthorResponse(author *models.Author) authorResponse {
	return authorResponse{author, author.String()}
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	authors, err := h.authorService.ListAuthors(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	result := make([]authorResponse, len(authors))
	for i, a := range authors {
		result[i] = newAuthorResponse(a)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.authorService.RetrieveAuthor(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	books, err := h.authorService.ListBooks(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, authorDetailResponse{newAuthorResponse(author), books}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author := &models.Author{
		FirstName: params.FirstName,
		LastName:  params.LastName,
	}
	var err error
	if author.DateOfBirth, err = models.ParseOptionalDate(params.DateOfBirth); err != nil {
		return errors.WithStack(err)
	}
	if author.DateOfDeath, err = models.ParseOptionalDate(params.DateOfDeath); err != nil {
		return errors.WithStack(err)
	}

	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("created author", logger.Data{"author_id": author.ID, "name": author.String()})

	return errors.WithStack(c.JSON(http.StatusCreated, newAuthorResponse(author)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	params := UpdateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.authorService.RetrieveAuthor(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateAuthorOptions{Columns: []string{}}
	if params.FirstName != nil && *params.FirstName != "" {
		author.FirstName = *params.FirstName
		opts.Columns = append(opts.Columns, "first_name")
	}
	if params.LastName != nil && *params.LastName != "" {
		author.LastName = *params.LastName
		opts.Columns = append(opts.Columns, "last_name")
	}
	if params.DateOfBirth != nil {
		if author.DateOfBirth, err = models.ParseOptionalDate(*params.DateOfBirth); err != nil {
			return errors.WithStack(err)
		}
		opts.Columns = append(opts.Columns, "date_of_birth")
	}
	if params.DateOfDeath != nil {
		if author.DateOfDeath, err = models.ParseOptionalDate(*params.DateOfDeath); err != nil {
			return errors.WithStack(err)
		}
		opts.Columns = append(opts.Columns, "date_of_death")
	}

	if err := h.authorService.UpdateAuthor(ctx, author, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, newAuthorResponse(author)))
}

func (h *handler) deleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	if err := h.authorService.DeleteAuthor(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("deleted author", logger.Data{"author_id": id})

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
