package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/handlers"
	appmiddleware "github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/module"
	"github.com/owndesign/owndesign/internal/registry"
	"github.com/owndesign/owndesign/internal/rendering"
	"github.com/owndesign/owndesign/internal/storage"
	"github.com/owndesign/owndesign/web"
)

const sessionMaxAge = 7 * 24 * 60 * 60

// Dependencies are the services the HTTP server is built from.
type Dependencies struct {
	Config    config.Provider
	Emailer   domain.EmailSender
	UserStore domain.UserRepository
	Profiles  domain.ProfileRepository
	Objects   storage.ObjectStore
	Renderer  rendering.Renderer
	// Echo is optional; tests pass their own instance.
	Echo *echo.Echo
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E         *echo.Echo
	Cfg       config.Provider
	Emailer   domain.EmailSender
	UserStore domain.UserRepository
	Profiles  domain.ProfileRepository
	Objects   storage.ObjectStore

	modules []module.Module
}

// New creates the server and installs the global middleware.
func New(deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.UserStore == nil || deps.Profiles == nil {
		return nil, errors.New("server: user and profile repositories are required")
	}

	e := deps.Echo
	if e == nil {
		e = echo.New()
	}
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(appmiddleware.Logger)

	store := sessions.NewCookieStore([]byte(deps.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	renderer := deps.Renderer
	if renderer == nil {
		renderer = rendering.NewUniversalRenderer()
	}
	if r, ok := renderer.(echo.Renderer); ok {
		e.Renderer = r
	}
	e.Validator = handlers.NewValidator()

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("server: static assets: %w", err)
	}
	e.StaticFS("/static", static)

	setupErrorHandling(e)

	return &Server{
		E:         e,
		Cfg:       deps.Config,
		Emailer:   deps.Emailer,
		UserStore: deps.UserStore,
		Profiles:  deps.Profiles,
		Objects:   deps.Objects,
	}, nil
}

// setupErrorHandling logs unhandled errors with a stack trace before handing
// them to echo's default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			appmiddleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// InitModules registers every module's services, then boots them on the root
// group. Registration completes for all modules before any of them boots.
func (s *Server) InitModules(ctx context.Context, modules []module.Module, reg *registry.Registry) error {
	registry.Set(reg, registry.UserRepositoryKey, s.UserStore)
	registry.Set(reg, registry.ProfileRepositoryKey, s.Profiles)
	if s.Objects != nil {
		registry.Set(reg, registry.ObjectStoreKey, s.Objects)
	}

	for _, m := range modules {
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}

	root := s.E.Group("")
	for _, m := range modules {
		if err := m.Boot(ctx, root, reg); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		slog.Info("Module booted", "module", m.Name())
	}
	s.modules = modules
	return nil
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	addr := s.Cfg.GetAppAddr()
	slog.Info("Starting server", "addr", addr)
	if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down the server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, then shuts the modules down in reverse
// boot order.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.E.Shutdown(ctx)
	for i := len(s.modules) - 1; i >= 0; i-- {
		if mErr := s.modules[i].Shutdown(ctx); mErr != nil {
			slog.Error("Module shutdown failed", "module", s.modules[i].Name(), "error", mErr)
			err = errors.Join(err, mErr)
		}
	}
	return err
}
