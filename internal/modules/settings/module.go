// Package settings serves the design page where creators edit how their
// portfolio looks.
package settings

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/module"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/registry"
	form "github.com/owndesign/owndesign/internal/settings"
)

// Dependencies are the services the design page needs.
type Dependencies struct {
	Users     domain.UserRepository
	Profiles  domain.ProfileRepository
	Avatars   form.AvatarStore
	Publisher pubsub.Publisher
	// Now is the clock used for avatar names and timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Module wires the design page.
type Module struct {
	module.BaseModule
	deps    Dependencies
	editors *form.Editors
	handler *Handler
}

var _ module.Module = (*Module)(nil)

// New creates the settings module.
func New(deps Dependencies) *Module {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := &Module{deps: deps}
	m.editors = form.NewEditors(func(owner string) *form.Controller {
		return form.NewController(owner, deps.Profiles, deps.Avatars,
			form.WithClock(deps.Now),
			form.WithPublisher(deps.Publisher),
			form.WithLogger(slog.Default().With("module", "settings")),
		)
	})
	m.handler = NewHandler(m.editors, deps.Now)
	return m
}

func (m *Module) Name() string {
	return "settings"
}

// Editors exposes the open forms.
func (m *Module) Editors() *form.Editors {
	return m.editors
}

func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	users := m.deps.Users
	if users == nil {
		users = registry.MustGet(reg, registry.UserRepositoryKey)
	}

	g := router.Group(basePath, middleware.Auth(users))
	g.GET("", m.handler.Get)
	g.POST("/input", m.handler.Input)
	g.POST("/save", m.handler.Save)
	g.GET("/reset", m.handler.ResetConfirm)
	g.POST("/reset", m.handler.Reset)
	g.POST("/avatar", m.handler.Avatar)
	g.POST("/navigate", m.handler.Navigate)
	g.POST("/leave", m.handler.Leave)
	g.POST("/stay", m.handler.Stay)

	slog.Info("Settings module booted", "base_path", basePath)
	return nil
}
