package languages

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
	languageService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	languages, err := h.languageService.ListLanguages(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, languages))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	language, err := h.languageService.RetrieveLanguage(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := LanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language := &models.Language{Name: params.Name}
	if err := h.languageService.CreateLanguage(ctx, language); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("created language", logger.Data{"language_id": language.ID})

	return errors.WithStack(c.JSON(http.StatusCreated, language))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	params := LanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language, err := h.languageService.RetrieveLanguage(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateLanguageOptions{Columns: []string{}}
	if params.Name != language.Name {
		language.Name = params.Name
		opts.Columns = append(opts.Columns, "name")
	}

	if err := h.languageService.UpdateLanguage(ctx, language, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) deleteLanguage(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	if err := h.languageService.DeleteLanguage(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("deleted language", logger.Data{"language_id": id})

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
