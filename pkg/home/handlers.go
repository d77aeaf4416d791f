package home

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/visits"
)

type handler struct {
	homeService *Service
	counter     *visits.Counter
}

func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.homeService.Summarize(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	summary.NumVisits = h.counter.Increment()

	return errors.WithStack(c.JSON(http.StatusOK, summary))
}
