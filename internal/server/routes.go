package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/handlers"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/storage"
)

// RegisterRoutes sets up the routes that do not belong to a module.
func (s *Server) RegisterRoutes() {
	homeHandler := handlers.NewHomeHandler()
	authHandler := handlers.NewAuthHandler(s.UserStore, s.Profiles, s.Emailer, s.Cfg.GetAppBaseURL())
	rateLimiter := middleware.RateLimiter(middleware.DefaultAuthRate)
	optionalUser := middleware.OptionalUser(s.UserStore)

	s.E.GET("/", homeHandler.HomeGet, optionalUser)
	s.E.GET("/about", handlers.AboutGet, optionalUser)

	auth := s.E.Group("/auth")
	auth.GET("/register", authHandler.RegisterGet)
	auth.POST("/register", authHandler.RegisterPost, rateLimiter)
	auth.GET("/login", authHandler.LoginGet)
	auth.POST("/login", authHandler.LoginPost, rateLimiter)
	auth.POST("/logout", authHandler.Logout)

	if s.Objects != nil {
		bucket := s.Cfg.GetStorageBucket()
		s.E.GET("/storage/"+bucket+"/*", storage.NewFileHandler(s.Objects).Serve)
	}

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
