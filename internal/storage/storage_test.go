package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoStore_Unit(t *testing.T) {
	memFs := afero.NewMemMapFs()
	store := NewAferoStore(memFs, "data", "imagenes")
	ctx := context.Background()

	objectPath := "avatars/abc-1700000000000.png"
	content := "not really a png"

	t.Run("Upload", func(t *testing.T) {
		n, err := store.Upload(ctx, objectPath, bytes.NewReader([]byte(content)))
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), n)

		exists, err := afero.Exists(memFs, "data/imagenes/"+objectPath)
		require.NoError(t, err)
		assert.True(t, exists, "object should be written below the bucket root")
	})

	t.Run("Upload refuses to overwrite", func(t *testing.T) {
		_, err := store.Upload(ctx, objectPath, strings.NewReader("other"))
		assert.ErrorIs(t, err, ErrObjectExists)

		data, err := afero.ReadFile(memFs, "data/imagenes/"+objectPath)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("Open", func(t *testing.T) {
		f, err := store.Open(ctx, objectPath)
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("PublicURL round trip", func(t *testing.T) {
		u := store.PublicURL(objectPath)
		assert.Equal(t, "/storage/imagenes/"+objectPath, u)

		p, ok := store.PathFromURL("http://localhost:8080" + u + "?width=400&height=400")
		require.True(t, ok)
		assert.Equal(t, objectPath, p)

		_, ok = store.PathFromURL("https://avatar.iran.liara.run/public/boy?username=x")
		assert.False(t, ok)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, objectPath))
		_, err := store.Open(ctx, objectPath)
		assert.ErrorIs(t, err, ErrObjectNotFound)
		assert.ErrorIs(t, store.Remove(ctx, objectPath), ErrObjectNotFound)
	})

	t.Run("Rejects escaping paths", func(t *testing.T) {
		_, err := store.Upload(ctx, "../outside.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidPath)
		_, err = store.Open(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})
}
