package credstore_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firasabed78/culinary--academy/internal/credstore"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := credstore.NewFileStore(dir)

	// absence is a valid state
	_, ok := store.Get()
	assert.False(t, ok)

	require.NoError(t, store.Set("my-bearer-token"))

	token, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "my-bearer-token", token)

	// the credential survives a new store instance, as after a restart
	token, ok = credstore.NewFileStore(dir).Get()
	require.True(t, ok)
	assert.Equal(t, "my-bearer-token", token)

	require.NoError(t, store.Remove())
	_, ok = store.Get()
	assert.False(t, ok)

	// removing an absent credential succeeds
	require.NoError(t, store.Remove())
}

func TestFileStore_Overwrite(t *testing.T) {
	store := credstore.NewFileStore(t.TempDir())

	require.NoError(t, store.Set("first"))
	require.NoError(t, store.Set("second"))

	token, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "second", token)
}

func TestFileStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	dir := t.TempDir()
	store := credstore.NewFileStore(dir)
	require.NoError(t, store.Set("secret"))

	info, err := os.Stat(filepath.Join(dir, "auth_token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
