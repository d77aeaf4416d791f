package circulation

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/auth"
	"github.com/shishobooks/circulation/pkg/copies"
	"github.com/shishobooks/circulation/pkg/models"
)

type handler struct {
	circulationService *Service
	now                func() time.Time
}

type renewalFormResponse struct {
	Copy        copies.Response `json:"copy"`
	RenewalDate string          `json:"renewal_date"`
}

func (h *handler) today() time.Time {
	return models.Day(h.now())
}

func (h *handler) myLoans(c echo.Context) error {
	ctx := c.Request().Context()

	loans, err := h.circulationService.ListMyLoans(ctx, actorFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, copies.NewResponses(loans, h.today())))
}

func (h *handler) allLoans(c echo.Context) error {
	ctx := c.Request().Context()

	loans, err := h.circulationService.ListAllLoans(ctx, actorFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, copies.NewResponses(loans, h.today())))
}

func (h *handler) renewalForm(c echo.Context) error {
	ctx := c.Request().Context()
	today := h.today()

	form, err := h.circulationService.RenewalForm(ctx, actorFromContext(c), c.Param("id"), today)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, renewalFormResponse{
		Copy:        copies.NewResponse(form.Copy, today),
		RenewalDate: form.ProposedDate.Format(models.DateLayout),
	}))
}

// renew redirects to the all-loans listing on success, like a form post.
func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()

	params := RenewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	proposed, err := models.ParseDate(params.RenewalDate)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = h.circulationService.Renew(ctx, actorFromContext(c), c.Param("id"), proposed, h.today())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/loans"))
}

func (h *handler) changeStatus(c echo.Context) error {
	ctx := c.Request().Context()

	params := ChangeStatusPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bi, err := h.circulationService.ChangeStatus(ctx, actorFromContext(c), c.Param("id"), models.LoanStatus(params.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, copies.NewResponse(bi, h.today())))
}

// actorFromContext avoids handing the service a non-nil interface wrapping
// a nil user.
func actorFromContext(c echo.Context) Actor {
	if user := auth.UserFromContext(c); user != nil {
		return user
	}
	return nil
}
