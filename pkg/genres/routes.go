package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/auth"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on a pre-configured group.
// Reads are public; writes need can_mark_returned.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		genreService: NewService(db),
	}

	maintainer := authMiddleware.RequireCapability(models.CapabilityCanMarkReturned)

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/books", h.books)
	g.POST("", h.create, maintainer)
	g.PATCH("/:id", h.update, maintainer)
	g.DELETE("/:id", h.deleteGenre, maintainer)
}
