// Package community lists the creators on the platform.
package community

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/module"
	"github.com/owndesign/owndesign/internal/registry"
	"github.com/owndesign/owndesign/internal/view"
)

// Dependencies are the services the directory needs.
type Dependencies struct {
	Users    domain.UserRepository
	Profiles domain.ProfileRepository
}

// Module wires the creator directory.
type Module struct {
	module.BaseModule
	deps Dependencies
}

var _ module.Module = (*Module)(nil)

// New creates the community module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

func (m *Module) Name() string {
	return "community"
}

func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	if m.deps.Users == nil {
		m.deps.Users = registry.MustGet(reg, registry.UserRepositoryKey)
	}
	if m.deps.Profiles == nil {
		m.deps.Profiles = registry.MustGet(reg, registry.ProfileRepositoryKey)
	}
	g := router.Group("/users", middleware.OptionalUser(m.deps.Users))
	g.GET("", m.list)
	g.GET("/search", m.search)
	return nil
}

func (m *Module) entries(c echo.Context) ([]Entry, error) {
	profiles, err := m.deps.Profiles.List(c.Request().Context())
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to list profiles", "error", err)
		return nil, err
	}
	out := make([]Entry, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, newEntry(p))
	}
	return out, nil
}

func (m *Module) list(c echo.Context) error {
	page := view.PageData{
		Title:   "Creators",
		User:    middleware.CurrentUser(c),
		Flashes: view.GetFlashData(c),
	}
	entries, err := m.entries(c)
	if err != nil {
		return c.Render(http.StatusBadGateway, "", view.Page(page,
			view.ErrorPanel("Creators unavailable", "The creator list could not be loaded.")))
	}
	query := c.QueryParam("q")
	return c.Render(http.StatusOK, "", view.Page(page, directory(Filter(entries, query), query)))
}

func (m *Module) search(c echo.Context) error {
	entries, err := m.entries(c)
	if err != nil {
		return c.Render(http.StatusBadGateway, "", view.Alert("danger", "The creator list could not be loaded."))
	}
	return c.Render(http.StatusOK, "", results(Filter(entries, c.QueryParam("q"))))
}
