// Package portfolio serves the public page of each creator.
package portfolio

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/module"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/registry"
	"github.com/owndesign/owndesign/internal/storage"
)

// Dependencies are the services the portfolio pages need.
type Dependencies struct {
	Users      domain.UserRepository
	Profiles   domain.ProfileRepository
	Gallery    domain.GalleryRepository
	Objects    storage.ObjectStore
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
}

// Module wires the portfolio pages.
type Module struct {
	module.BaseModule
	deps    Dependencies
	cache   *styleCache
	handler *Handler
}

var _ module.Module = (*Module)(nil)

// New creates the portfolio module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps, cache: newStyleCache()}
}

func (m *Module) Name() string {
	return "portfolio"
}

func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	if m.deps.Users == nil {
		m.deps.Users = registry.MustGet(reg, registry.UserRepositoryKey)
	}
	if m.deps.Subscriber != nil {
		if err := m.cache.subscribe(ctx, m.deps.Subscriber); err != nil {
			return err
		}
	}

	m.handler = NewHandler(m.deps.Profiles, m.deps.Gallery, m.deps.Objects, m.deps.Publisher, m.cache)

	g := router.Group("/portfolio", middleware.OptionalUser(m.deps.Users))
	g.GET("", m.handler.Get)
	g.GET("/images/:id", m.handler.Image)
	g.DELETE("/images/:id", m.handler.Delete, middleware.Auth(m.deps.Users))

	slog.Info("Portfolio module booted")
	return nil
}
