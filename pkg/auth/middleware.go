package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
)

const userContextKey = "user"

type Middleware struct {
	authService *Service
}

func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate loads the user behind the session cookie or bearer token and
// stores it on the context. Requests without a valid, active user get a 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := tokenFromRequest(c)
		if token == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
		if err != nil {
			return errcodes.Unauthorized("User not found or inactive")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// AuthenticateOptional behaves like Authenticate but lets anonymous requests
// through without a user on the context.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := m.authService.ValidateToken(token); err == nil {
				if user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID); err == nil {
					c.Set(userContextKey, user)
				}
			}
		}
		return next(c)
	}
}

// RequireCapability rejects users without the named capability. It must run
// after Authenticate.
func (m *Middleware) RequireCapability(capability string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			if user == nil {
				return errcodes.Unauthorized("Authentication required")
			}
			if !user.HasCapability(capability) {
				return errcodes.Forbidden("This action")
			}
			return next(c)
		}
	}
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// SetUser stores user on c the way Authenticate does.
func SetUser(c echo.Context, user *models.User) {
	c.Set(userContextKey, user)
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
