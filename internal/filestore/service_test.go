package filestore

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/storage"
)

func newTestService(t *testing.T, maxSize int64) (*Service, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	cfg := &config.Config{
		MaxUploadSize:    maxSize,
		AllowedMimeTypes: []string{"image/png", "image/jpeg"},
	}
	return NewService(storage.NewAferoStore(fs, "root", "imagenes"), cfg), fs
}

func TestService_Store(t *testing.T) {
	svc, fs := newTestService(t, 64)
	ctx := context.Background()

	t.Run("stores a valid image", func(t *testing.T) {
		u := Upload{Filename: "me.png", ContentType: "image/png", Size: 5, Body: strings.NewReader("hello")}
		url, err := svc.Store(ctx, "avatars/abc-1.png", u)
		require.NoError(t, err)
		assert.Equal(t, "/storage/imagenes/avatars/abc-1.png", url)

		exists, err := afero.Exists(fs, "root/imagenes/avatars/abc-1.png")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("rejects disallowed types", func(t *testing.T) {
		u := Upload{Filename: "doc.pdf", ContentType: "application/pdf", Size: 3, Body: strings.NewReader("pdf")}
		_, err := svc.Store(ctx, "avatars/abc-2.pdf", u)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("rejects declared oversize", func(t *testing.T) {
		u := Upload{Filename: "big.png", ContentType: "image/png", Size: 65, Body: strings.NewReader(strings.Repeat("x", 65))}
		_, err := svc.Store(ctx, "avatars/abc-3.png", u)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("rejects actual oversize and removes the object", func(t *testing.T) {
		u := Upload{Filename: "lie.png", ContentType: "image/png", Size: 1, Body: strings.NewReader(strings.Repeat("x", 100))}
		_, err := svc.Store(ctx, "avatars/abc-4.png", u)
		assert.ErrorIs(t, err, ErrTooLarge)

		exists, _ := afero.Exists(fs, "root/imagenes/avatars/abc-4.png")
		assert.False(t, exists)
	})

	t.Run("rejects empty uploads", func(t *testing.T) {
		_, err := svc.Store(ctx, "avatars/abc-5.png", Upload{ContentType: "image/png"})
		assert.ErrorIs(t, err, ErrEmpty)
	})
}

func TestExt(t *testing.T) {
	tests := []struct {
		filename, contentType, want string
	}{
		{"photo.JPG", "image/jpeg", ".jpg"},
		{"photo.png", "", ".png"},
		{"blob", "image/jpeg", ".jpg"},
		{"blob", "image/webp; charset=binary", ".webp"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.filename, tt.contentType))
		})
	}
}
