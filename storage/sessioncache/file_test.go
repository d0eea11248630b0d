package sessioncache

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/auth"
)

func newTestFileCache(t *testing.T) auth.Cache {
	t.Helper()
	dir, err := ioutil.TempDir("", "sessioncache")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cache, err := NewFileCache(&core.Config{
		AppName:     "Darasa",
		SessionFile: filepath.Join(dir, "session"),
	})
	require.NoError(t, err)
	return cache
}

func TestFileCache(t *testing.T) {
	cache := newTestFileCache(t)

	t.Run("empty slot", func(t *testing.T) {
		_, err := cache.Get()
		assert.Equal(t, auth.ErrNoSession, err)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, cache.Set([]byte("first")))
		data, err := cache.Get()
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), data)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, cache.Set([]byte("second")))
		data, err := cache.Get()
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, cache.Clear())
		_, err := cache.Get()
		assert.Equal(t, auth.ErrNoSession, err)

		// idempotent
		require.NoError(t, cache.Clear())
	})
}

func TestFileCache_slotPermissions(t *testing.T) {
	dir, err := ioutil.TempDir("", "sessioncache")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "session")
	cache, err := NewFileCache(&core.Config{AppName: "Darasa", SessionFile: path})
	require.NoError(t, err)
	require.NoError(t, cache.Set([]byte("token")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileCache_emptyFileIsNoSession(t *testing.T) {
	dir, err := ioutil.TempDir("", "sessioncache")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "session")
	require.NoError(t, ioutil.WriteFile(path, nil, 0600))

	cache, err := NewFileCache(&core.Config{AppName: "Darasa", SessionFile: path})
	require.NoError(t, err)
	_, err = cache.Get()
	assert.Equal(t, auth.ErrNoSession, err)
}

func TestInMemCache(t *testing.T) {
	cache := NewInMemCache()

	_, err := cache.Get()
	assert.Equal(t, auth.ErrNoSession, err)

	require.NoError(t, cache.Set([]byte("slot")))
	data, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("slot"), data)

	// mutations of the returned slice must not leak into the slot
	data[0] = 'x'
	data2, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("slot"), data2)

	require.NoError(t, cache.Clear())
	_, err = cache.Get()
	assert.Equal(t, auth.ErrNoSession, err)
}
