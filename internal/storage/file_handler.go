package storage

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/owndesign/owndesign/internal/middleware"
)

// FileHandler serves the public objects of a bucket.
type FileHandler struct {
	store ObjectStore
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(s ObjectStore) *FileHandler {
	return &FileHandler{store: s}
}

// Serve streams the object named by the wildcard route parameter.
func (h *FileHandler) Serve(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	objectPath := c.Param("*")
	content, err := h.store.Open(ctx, objectPath)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrInvalidPath) {
			return c.String(http.StatusNotFound, "File not found")
		}
		logger.Error("Failed to open object", slog.String("path", objectPath), slog.String("error", err.Error()))
		return c.String(http.StatusInternalServerError, "Could not retrieve file")
	}
	defer content.Close()

	contentType := mime.TypeByExtension(path.Ext(objectPath))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Stream(http.StatusOK, contentType, content)
}
