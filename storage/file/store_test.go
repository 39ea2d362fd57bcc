package filestore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	_, ok := s.Get("token")
	assert.False(t, ok, "empty store")

	require.NoError(t, s.Set("token", "abc"))
	v, ok := s.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	// another process sees the value
	other, err := New(dir)
	require.NoError(t, err)
	v, ok = other.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	fi, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	require.NoError(t, s.Remove("token"))
	_, ok = other.Get("token")
	assert.False(t, ok)

	// removing twice is fine
	assert.NoError(t, s.Remove("token"))
}

func TestStore_corruptedFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0600))

	_, ok := s.Get("token")
	assert.False(t, ok)
	assert.Error(t, s.Set("token", "abc"))
}
