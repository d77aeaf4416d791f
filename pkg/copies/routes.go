package copies

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/auth"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers copy maintenance routes on an
// authenticated group. Every route needs the can_mark_returned capability.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		copyService: NewService(db),
		now:         time.Now,
	}

	maintainer := authMiddleware.RequireCapability(models.CapabilityCanMarkReturned)

	g.GET("", h.list, maintainer)
	g.POST("", h.create, maintainer)
	g.GET("/:id", h.retrieve, maintainer)
	g.PATCH("/:id", h.update, maintainer)
	g.DELETE("/:id", h.deleteCopy, maintainer)
}
