// Package filestore validates uploaded images and places them in the
// public object store.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/storage"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured size limit.
	ErrTooLarge = errors.New("file is too large")
	// ErrUnsupportedType is returned for content types outside the allow list.
	ErrUnsupportedType = errors.New("file type is not allowed")
	// ErrEmpty is returned for uploads without content.
	ErrEmpty = errors.New("file is empty")
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service stores validated uploads.
type Service struct {
	store   storage.ObjectStore
	maxSize int64
	allowed []string
}

// NewService creates a file service that writes to store.
func NewService(store storage.ObjectStore, cfg config.Provider) *Service {
	return &Service{
		store:   store,
		maxSize: cfg.GetMaxUploadSize(),
		allowed: cfg.GetAllowedMimeTypes(),
	}
}

// Validate checks the size and content type of an upload.
func (s *Service) Validate(u Upload) error {
	if u.Body == nil || u.Size == 0 {
		return ErrEmpty
	}
	if s.maxSize > 0 && u.Size > s.maxSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, u.Size, s.maxSize)
	}
	mediaType := baseType(u.ContentType)
	if len(s.allowed) > 0 && !slices.Contains(s.allowed, mediaType) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, mediaType)
	}
	return nil
}

// Store validates u and writes it to objectPath, returning its public URL.
func (s *Service) Store(ctx context.Context, objectPath string, u Upload) (string, error) {
	if err := s.Validate(u); err != nil {
		return "", err
	}
	body := u.Body
	if s.maxSize > 0 {
		// The declared size comes from the client.
		body = io.LimitReader(u.Body, s.maxSize+1)
	}
	n, err := s.store.Upload(ctx, objectPath, body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		_ = s.store.Remove(ctx, objectPath)
		return "", fmt.Errorf("%w: limit is %d", ErrTooLarge, s.maxSize)
	}
	return s.store.PublicURL(objectPath), nil
}

// Remove deletes a stored object.
func (s *Service) Remove(ctx context.Context, objectPath string) error {
	return s.store.Remove(ctx, objectPath)
}

// Ext returns the file extension, with its dot, to store an upload under.
// The original filename wins, then the content type.
func Ext(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filepath.Base(filename))); ext != "" && ext != "." {
		return ext
	}
	switch baseType(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(baseType(contentType)); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func baseType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
