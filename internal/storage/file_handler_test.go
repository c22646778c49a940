package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owndesign/owndesign/internal/storage"
)

func TestFileHandler_Serve(t *testing.T) {
	store := storage.NewAferoStore(afero.NewMemMapFs(), "root", "imagenes")
	_, err := store.Upload(context.Background(), "gallery-images/abc/1.png", strings.NewReader("pixels"))
	require.NoError(t, err)

	e := echo.New()
	e.GET("/storage/imagenes/*", storage.NewFileHandler(store).Serve)

	t.Run("existing object", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/storage/imagenes/gallery-images/abc/1.png", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, "pixels", rec.Body.String())
	})

	t.Run("missing object", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/storage/imagenes/gallery-images/abc/2.png", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
