package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/auth"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		authorService: NewService(db),
	}

	maintainer := authMiddleware.RequireCapability(models.CapabilityCanMarkReturned)

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, maintainer)
	g.PATCH("/:id", h.update, maintainer)
	g.DELETE("/:id", h.deleteAuthor, maintainer)
}
