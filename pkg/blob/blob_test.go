package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_KeyFromURL(t *testing.T) {
	t.Run("well-formed url", func(t *testing.T) {
		key, err := KeyFromURL("http://localhost:8080/uploads/2024/img.png", "/uploads/")
		require.NoError(t, err)
		assert.Equal(t, "2024/img.png", key)
	})

	t.Run("prefix token fallback", func(t *testing.T) {
		// Not parseable as a URL path match, but the token is present.
		key, err := KeyFromURL("cdn.example.com/uploads/abc.jpg?v=2", "/uploads/")
		require.NoError(t, err)
		assert.Equal(t, "abc.jpg?v=2", key)
	})

	t.Run("no key recognizable", func(t *testing.T) {
		_, err := KeyFromURL("http://example.com/static/logo.png", "/uploads/")
		assert.ErrorIs(t, err, ErrNoKey)
	})

	t.Run("empty key after prefix", func(t *testing.T) {
		_, err := KeyFromURL("http://example.com/uploads/", "/uploads/")
		assert.ErrorIs(t, err, ErrNoKey)
	})
}

func Test_DiskStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)

	t.Run("save then delete", func(t *testing.T) {
		url, err := store.Save(context.Background(), "a/b.txt", []byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/uploads/a/b.txt", url)

		data, err := os.ReadFile(filepath.Join(dir, "a", "b.txt"))
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)

		require.NoError(t, store.Delete(context.Background(), "a/b.txt"))
		_, err = os.Stat(filepath.Join(dir, "a", "b.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete of missing key is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(context.Background(), "never/was.png"))
	})

	t.Run("rejects traversal", func(t *testing.T) {
		_, err := store.Save(context.Background(), "../../etc/passwd", []byte("x"))
		// Cleaned to a path inside baseDir; must not escape.
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "etc", "passwd"))
		assert.NoError(t, statErr)
	})
}
