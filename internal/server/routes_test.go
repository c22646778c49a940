package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/owndesign/owndesign/internal/app"
	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/registry"
	"github.com/owndesign/owndesign/internal/storage"
	"github.com/owndesign/owndesign/internal/testutils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("SESSION_SECRET", "a-very-secret-key-for-testing-!")
	cfg := config.Load()

	users := testutils.NewUserRepo()
	profiles := testutils.NewProfileRepo()
	objects := storage.NewAferoStore(afero.NewMemMapFs(), "data", cfg.GetStorageBucket())
	bus := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })

	s, err := New(Dependencies{
		Config:    cfg,
		UserStore: users,
		Profiles:  profiles,
		Objects:   objects,
	})
	require.NoError(t, err)

	modules := app.NewModules(app.Dependencies{
		Users:      users,
		Profiles:   profiles,
		Gallery:    testutils.NewGalleryRepo(),
		Objects:    objects,
		Media:      filestore.NewService(objects, cfg),
		Publisher:  bus,
		Subscriber: bus,
	})
	require.NoError(t, s.InitModules(context.Background(), modules, registry.New(cfg)))
	s.RegisterRoutes()
	return s
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		status   int
		location string
		contains string
	}{
		{"health", "/health", http.StatusOK, "", "OK"},
		{"home", "/", http.StatusOK, "", "OwnDesign"},
		{"about", "/about", http.StatusOK, "", "About OwnDesign"},
		{"login page", "/auth/login", http.StatusOK, "", "Log in"},
		{"register page", "/auth/register", http.StatusOK, "", "Create your portfolio"},
		{"static css", "/static/css/effects.css", http.StatusOK, "", ".fx-glow"},
		{"settings needs a session", "/settings", http.StatusSeeOther, "/auth/login", ""},
		{"creators directory", "/users", http.StatusOK, "", ""},
		{"missing object", "/storage/imagenes/avatars/none.png", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			s.E.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestServer_RequiresRepositories(t *testing.T) {
	_, err := New(Dependencies{Config: config.Load()})
	assert.Error(t, err)
}
