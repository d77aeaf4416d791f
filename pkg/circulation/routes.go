package circulation

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroups registers the loan listings on loansGroup and the
// per-copy circulation actions on copiesGroup. Both groups must already run
// Authenticate. Capabilities are checked by the service, after the copy
// lookup.
func RegisterRoutesWithGroups(loansGroup, copiesGroup *echo.Group, db *bun.DB) {
	h := &handler{
		circulationService: NewService(db),
		now:                time.Now,
	}

	loansGroup.GET("", h.allLoans)
	loansGroup.GET("/mine", h.myLoans)

	copiesGroup.GET("/:id/renew", h.renewalForm)
	copiesGroup.POST("/:id/renew", h.renew)
	copiesGroup.POST("/:id/status", h.changeStatus)
}
