// Package gallery lets creators add images to their portfolio.
package gallery

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/module"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/registry"
)

// Dependencies are the services the upload page needs.
type Dependencies struct {
	Users     domain.UserRepository
	Gallery   domain.GalleryRepository
	Media     *filestore.Service
	Publisher pubsub.Publisher
	Now       func() time.Time
}

// Module wires the upload page.
type Module struct {
	module.BaseModule
	deps    Dependencies
	handler *Handler
}

var _ module.Module = (*Module)(nil)

// New creates the gallery module.
func New(deps Dependencies) *Module {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Module{deps: deps}
}

func (m *Module) Name() string {
	return "gallery"
}

// Register shares the media service with the other modules.
func (m *Module) Register(reg *registry.Registry) error {
	if m.deps.Media != nil {
		registry.Set(reg, registry.MediaServiceKey, m.deps.Media)
	}
	return nil
}

func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	if m.deps.Users == nil {
		m.deps.Users = registry.MustGet(reg, registry.UserRepositoryKey)
	}
	if m.deps.Media == nil {
		m.deps.Media = registry.MustGet(reg, registry.MediaServiceKey)
	}
	m.handler = NewHandler(m.deps.Gallery, m.deps.Media, m.deps.Publisher, m.deps.Now)

	g := router.Group("/images", middleware.Auth(m.deps.Users))
	g.GET("/new", m.handler.New)
	g.POST("", m.handler.Create)

	slog.Info("Gallery module booted")
	return nil
}
