package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/owndesign/owndesign/internal/domain"
)

func TestProfileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("FindByOwner maps not found", func(t *testing.T) {
		store := NewProfileStore(newMockClient(&mockExecutor[domain.Profile]{}))
		_, err := store.FindByOwner(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("FindByOwner reads the owner's record", func(t *testing.T) {
		name := "Ada"
		exec := &mockExecutor[domain.Profile]{one: &domain.Profile{Name: &name}}
		store := NewProfileStore(newMockClient(exec))

		p, err := store.FindByOwner(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "Ada", *p.Name)
		assert.Equal(t, "profile", exec.last().params["tb"])
		assert.Equal(t, "abc", exec.last().params["key"])
	})

	t.Run("Update converts timestamps", func(t *testing.T) {
		exec := &mockExecutor[domain.Profile]{one: &domain.Profile{}}
		store := NewProfileStore(newMockClient(exec))
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		_, err := store.Update(ctx, "abc", map[string]any{"font_size": 18, "updated_at": at})
		require.NoError(t, err)

		data := exec.last().params["data"].(map[string]any)
		assert.Equal(t, 18, data["font_size"])
		assert.Equal(t, &surrealmodels.CustomDateTime{Time: at}, data["updated_at"])
	})

	t.Run("Update surfaces the backend error", func(t *testing.T) {
		backend := errors.New("Found 'abc' for field `font_size` but expected a int")
		store := NewProfileStore(newMockClient(&mockExecutor[domain.Profile]{err: backend}))

		_, err := store.Update(ctx, "abc", map[string]any{"font_size": "abc"})
		assert.ErrorIs(t, err, backend)
	})

	t.Run("Update of a missing profile", func(t *testing.T) {
		store := NewProfileStore(newMockClient(&mockExecutor[domain.Profile]{}))
		_, err := store.Update(ctx, "abc", map[string]any{"name": "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Create keys the profile by owner", func(t *testing.T) {
		exec := &mockExecutor[domain.Profile]{one: &domain.Profile{}}
		store := NewProfileStore(newMockClient(exec))

		_, err := store.Create(ctx, "abc", "Ada Lovelace")
		require.NoError(t, err)
		assert.Equal(t, "abc", exec.last().params["key"])
		data := exec.last().params["data"].(map[string]any)
		assert.Equal(t, "Ada Lovelace", data["name"])
	})
}

func TestGalleryStore(t *testing.T) {
	ctx := context.Background()
	owner := domain.ProfileRecordID("abc")

	t.Run("Create validates before writing", func(t *testing.T) {
		exec := &mockExecutor[domain.GalleryImage]{}
		store := NewGalleryStore(newMockClient(exec))

		_, err := store.Create(ctx, &domain.GalleryImage{ProfileID: &owner})
		assert.Error(t, err)
		assert.Empty(t, exec.queries)
	})

	t.Run("Create stamps the upload time", func(t *testing.T) {
		exec := &mockExecutor[domain.GalleryImage]{one: &domain.GalleryImage{}}
		store := NewGalleryStore(newMockClient(exec))
		store.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }

		img := &domain.GalleryImage{ProfileID: &owner, ImageURL: "/storage/imagenes/gallery-images/abc/1.png", Title: "One"}
		_, err := store.Create(ctx, img)
		require.NoError(t, err)

		data := exec.last().params["data"].(map[string]any)
		assert.Equal(t, "gallery_image", exec.last().params["table"])
		assert.Equal(t, "One", data["title"])
		require.NotNil(t, img.UploadedAt)
		assert.Equal(t, 2026, img.UploadedAt.Year())
	})

	t.Run("ListByOwner orders newest first", func(t *testing.T) {
		exec := &mockExecutor[domain.GalleryImage]{rows: []domain.GalleryImage{{Title: "b"}, {Title: "a"}}}
		store := NewGalleryStore(newMockClient(exec))

		images, err := store.ListByOwner(ctx, "abc")
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, "b", images[0].Title)
		assert.Contains(t, exec.last().query, "ORDER BY uploaded_at DESC")
		assert.Equal(t, owner, exec.last().params["profile"])
	})

	t.Run("FindByKey maps not found", func(t *testing.T) {
		store := NewGalleryStore(newMockClient(&mockExecutor[domain.GalleryImage]{}))
		_, err := store.FindByKey(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
