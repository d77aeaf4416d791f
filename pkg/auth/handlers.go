package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/models"
)

const (
	CookieName   = "circulation_session"
	CookieMaxAge = TokenExpiry
)

type handler struct {
	authService *Service
}

func buildMeResponse(user *models.User) MeResponse {
	resp := MeResponse{
		ID:           user.ID,
		Username:     user.Username,
		RoleID:       user.RoleID,
		Capabilities: user.Capabilities(),
	}
	if user.Role != nil {
		resp.RoleName = user.Role.Name
	}
	return resp
}

func sessionCookie(c echo.Context, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *handler) startSession(c echo.Context, user *models.User) error {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	c.SetCookie(sessionCookie(c, token, int(CookieMaxAge.Seconds())))
	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(user)))
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		logger.FromContext(ctx).Info("failed login", logger.Data{"username": params.Username})
		return errors.WithStack(err)
	}

	return h.startSession(c, user)
}

func (h *handler) logout(c echo.Context) error {
	c.SetCookie(sessionCookie(c, "", -1))
	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"}))
}

// me runs behind Authenticate.
func (h *handler) me(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(UserFromContext(c))))
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.authService.CountUsers(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, StatusResponse{
		NeedsSetup: count == 0,
	}))
}

func (h *handler) setup(c echo.Context) error {
	ctx := c.Request().Context()

	params := SetupPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.CreateFirstLibrarian(ctx, params.Username, params.Password)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("created first librarian", logger.Data{"user_id": user.ID, "username": user.Username})

	return h.startSession(c, user)
}

