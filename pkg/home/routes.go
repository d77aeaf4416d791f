package home

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/visits"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, counter *visits.Counter) {
	h := &handler{
		homeService: NewService(db),
		counter:     counter,
	}

	e.GET("/", h.index)
}
