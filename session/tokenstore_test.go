package session_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	markly "github.com/marklyhq/markly.go"
	"github.com/marklyhq/markly.go/session"
)

// Both stores double as the client's token source.
var (
	_ session.TokenStore = (*session.FileStore)(nil)
	_ session.TokenStore = (*session.MemoryStore)(nil)
	_ markly.TokenSource = (*session.FileStore)(nil)
	_ markly.TokenSource = (*session.MemoryStore)(nil)
)

func TestFileStore(t *testing.T) {
	t.Run("MissingFileIsEmptyToken", func(t *testing.T) {
		store := session.NewFileStore(t.TempDir())
		tok, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, tok)
	})

	t.Run("SaveThenLoad", func(t *testing.T) {
		store := session.NewFileStore(t.TempDir())
		require.NoError(t, store.Save("abc123"))

		tok, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "abc123", tok)
		assert.Equal(t, "abc123", store.Token())
	})

	t.Run("LoadTrimsWhitespace", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("  abc123\n\n"), 0o600))

		store := session.NewFileStore(dir)
		tok, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "abc123", tok)
	})

	t.Run("CreatesMissingDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "markly")
		store := session.NewFileStore(dir)
		require.NoError(t, store.Save("abc123"))

		tok, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "abc123", tok)
	})

	t.Run("TokenFilePermissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permission bits")
		}
		dir := t.TempDir()
		store := session.NewFileStore(dir)
		require.NoError(t, store.Save("abc123"))

		info, err := os.Stat(filepath.Join(dir, "token"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("Clear", func(t *testing.T) {
		store := session.NewFileStore(t.TempDir())
		require.NoError(t, store.Save("abc123"))
		require.NoError(t, store.Clear())

		tok, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, tok)

		assert.NoError(t, store.Clear(), "Clearing an absent token is a no-op")
	})
}

func TestMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Save("abc123"))
	assert.Equal(t, "abc123", store.Token())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
}
