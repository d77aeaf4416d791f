package copies

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/models"
)

type handler struct {
	copyService *Service
	now         func() time.Time
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCopiesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListCopiesOptions{
		BookID:     params.BookID,
		BorrowerID: params.BorrowerID,
	}
	if params.Status != nil {
		status := models.LoanStatus(*params.Status)
		opts.Status = &status
	}

	copies, err := h.copyService.ListCopies(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewResponses(copies, h.now())))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	bi, err := h.copyService.RetrieveCopy(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewResponse(bi, h.now())))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateCopyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	dueBack, err := models.ParseOptionalDate(params.DueBack)
	if err != nil {
		return errors.WithStack(err)
	}

	bi, err := h.copyService.CreateCopy(ctx, CreateCopyOptions{
		BookID:     params.BookID,
		Imprint:    params.Imprint,
		DueBack:    dueBack,
		BorrowerID: params.BorrowerID,
		Status:     models.LoanStatus(params.Status),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("created copy", logger.Data{"copy_id": bi.ID, "book_id": bi.BookID})

	return errors.WithStack(c.JSON(http.StatusCreated, NewResponse(bi, h.now())))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateCopyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bi, err := h.copyService.RetrieveCopy(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateCopyOptions{Columns: []string{}}
	if params.BookID != nil {
		bi.BookID = params.BookID
		opts.Columns = append(opts.Columns, "book_id")
	}
	if params.Imprint != nil {
		bi.Imprint = *params.Imprint
		opts.Columns = append(opts.Columns, "imprint")
	}
	if params.DueBack != nil {
		bi.DueBack, err = models.ParseOptionalDate(*params.DueBack)
		if err != nil {
			return errors.WithStack(err)
		}
		opts.Columns = append(opts.Columns, "due_back")
	}
	if params.BorrowerID != nil {
		bi.BorrowerID = params.BorrowerID
		if *params.BorrowerID == 0 {
			bi.BorrowerID = nil
		}
		opts.Columns = append(opts.Columns, "borrower_id")
	}
	if params.Status != nil {
		bi.Status = models.LoanStatus(*params.Status)
		opts.Columns = append(opts.Columns, "status")
	}

	if err := h.copyService.UpdateCopy(ctx, bi, opts); err != nil {
		return errors.WithStack(err)
	}

	bi, err = h.copyService.RetrieveCopy(ctx, bi.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewResponse(bi, h.now())))
}

func (h *handler) deleteCopy(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.copyService.DeleteCopy(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
