package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetPersists(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("indexing.batch_size", 25))

	// A fresh store sees the persisted values.
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", reloaded.GetString("llm.model"))
	assert.Equal(t, 25, reloaded.GetInt("indexing.batch_size"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("str", "value"))
	require.NoError(t, store.Set("num", int64(42)))
	require.NoError(t, store.Set("flag", true))
	require.NoError(t, store.Set("list", []string{"a", "b"}))

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, 42, store.GetInt("num"))
	assert.True(t, store.GetBool("flag"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))

	// Missing and mistyped keys return zero values.
	assert.Empty(t, store.GetString("absent"))
	assert.Zero(t, store.GetInt("str"))
	assert.False(t, store.GetBool("num"))
	assert.Nil(t, store.GetStringSlice("flag"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	toml := "[indexing]\nbatch_size = 20\n\n[llm]\nprovider = \"ollama\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(toml), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 20, store.GetInt("indexing.batch_size"))
	assert.Equal(t, "ollama", store.GetString("llm.provider"))
}

func TestConfigStore_LoadMissingFile(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}
