package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
)

const (
	// UserContextKey is where the authenticated *domain.User is stored on the echo context.
	UserContextKey = "user"
	// AuthCookieName holds the session token issued at sign in.
	AuthCookieName = "auth_token"
	// LoginPath is where anonymous visitors are sent.
	LoginPath = "/auth/login"
)

// Auth creates a middleware that protects routes that require authentication.
func Auth(users domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := authenticate(c, users)
			if !ok {
				return redirectToLogin(c)
			}
			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// OptionalUser resolves the visitor's session when one exists but never
// blocks the request. Pages that look different for signed-in visitors use it.
func OptionalUser(users domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, ok := authenticate(c, users); ok {
				c.Set(UserContextKey, user)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Auth or OptionalUser, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserContextKey).(*domain.User)
	return user
}

func authenticate(c echo.Context, users domain.UserRepository) (*domain.User, bool) {
	cookie, err := c.Cookie(AuthCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	user, err := users.Authenticate(c.Request().Context(), cookie.Value)
	if err != nil || user == nil {
		FromContext(c.Request().Context()).Debug("Rejected session token", "error", err)
		ClearAuthCookie(c)
		return nil, false
	}
	return user, true
}

// redirectToLogin answers htmx requests with HX-Redirect so the whole page
// navigates instead of swapping the login form into a fragment.
func redirectToLogin(c echo.Context) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", LoginPath)
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.Redirect(http.StatusSeeOther, LoginPath)
}

// SetAuthCookie stores the session token.
func SetAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Scheme() == "https",
		MaxAge:   7 * 24 * 60 * 60,
	})
}

// ClearAuthCookie expires the session token.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:   AuthCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
