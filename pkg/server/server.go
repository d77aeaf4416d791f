package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/circulation/pkg/auth"
	"github.com/shishobooks/circulation/pkg/authors"
	"github.com/shishobooks/circulation/pkg/binder"
	"github.com/shishobooks/circulation/pkg/books"
	"github.com/shishobooks/circulation/pkg/circulation"
	"github.com/shishobooks/circulation/pkg/config"
	"github.com/shishobooks/circulation/pkg/copies"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/genres"
	"github.com/shishobooks/circulation/pkg/home"
	"github.com/shishobooks/circulation/pkg/languages"
	"github.com/shishobooks/circulation/pkg/visits"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, counter *visits.Counter) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)
	home.RegisterRoutes(e, db, counter)

	authMiddleware := auth.RegisterRoutes(e, db, cfg.JWTSecret)

	registerCatalogRoutes(e, db, authMiddleware)
	registerCirculationRoutes(e, db, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// registerCatalogRoutes registers the catalog resources. Anyone can read
// them, so the groups only authenticate optionally and each write route
// checks its capability.
func registerCatalogRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	genresGroup := e.Group("/genres")
	genresGroup.Use(authMiddleware.AuthenticateOptional)
	genres.RegisterRoutesWithGroup(genresGroup, db, authMiddleware)

	languagesGroup := e.Group("/languages")
	languagesGroup.Use(authMiddleware.AuthenticateOptional)
	languages.RegisterRoutesWithGroup(languagesGroup, db, authMiddleware)

	authorsGroup := e.Group("/authors")
	authorsGroup.Use(authMiddleware.AuthenticateOptional)
	authors.RegisterRoutesWithGroup(authorsGroup, db, authMiddleware)

	booksGroup := e.Group("/books")
	booksGroup.Use(authMiddleware.AuthenticateOptional)
	books.RegisterRoutesWithGroup(booksGroup, db, authMiddleware)
}

func registerCirculationRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	copiesGroup := e.Group("/copies")
	copiesGroup.Use(authMiddleware.Authenticate)
	copies.RegisterRoutesWithGroup(copiesGroup, db, authMiddleware)

	loansGroup := e.Group("/loans")
	loansGroup.Use(authMiddleware.Authenticate)

	circulation.RegisterRoutesWithGroups(loansGroup, copiesGroup, db)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
