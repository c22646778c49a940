package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// DefaultAuthRate is the request rate allowed per client IP on the
// credential endpoints.
const DefaultAuthRate = 10

// RateLimiter limits requests per client IP to the given rate per second,
// with a burst of the same size.
func RateLimiter(perSecond rate.Limit) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		// An in-memory store is enough for a single instance.
		Store: middleware.NewRateLimiterMemoryStore(perSecond),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "client", identifier)
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
