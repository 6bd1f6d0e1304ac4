package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func TestBackend_Attach(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(dir, types.DatabaseFile))
	assert.NoError(t, err, "database file should exist")
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
	assert.False(t, b.ReadOnly())
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config types.Config
		want   error
	}{
		{"empty backend", types.Config{DataDir: t.TempDir()}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "postgres", DataDir: t.TempDir()}, types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, NewBackend().Attach(tt.config), tt.want)
		})
	}
}

func TestBackend_Detach(t *testing.T) {
	b := setupBackend(t)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should be a no-op")

	_, err := b.List(types.KindGroup)
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.Upsert(newGroup("g1", 0)), types.ErrDetached)
}

func TestBackend_ReattachKeepsData(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	require.NoError(t, b.Upsert(newGroup("g1", 3)))
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(config))
	defer b.Detach()
	got, err := b.Get(types.KindGroup, "g1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.(*types.Group).ColorIndex)
}

func TestBackend_ReadOnly(t *testing.T) {
	dir := t.TempDir()

	writer := NewBackend()
	require.NoError(t, writer.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer writer.Detach()
	require.NoError(t, writer.Upsert(newGroup("g1", 4)))

	reader := NewBackend()
	require.NoError(t, reader.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir, ReadOnly: true}))
	defer reader.Detach()
	assert.True(t, reader.ReadOnly())

	got, err := reader.Get(types.KindGroup, "g1")
	require.NoError(t, err)
	assert.Equal(t, "group g1", got.(*types.Group).Title)

	assert.ErrorIs(t, reader.Upsert(newGroup("g2", 0)), types.ErrReadOnly)
	assert.ErrorIs(t, reader.CascadingSoftDelete(types.KindGroup, "g1"), types.ErrReadOnly)
	assert.ErrorIs(t, reader.WipeAll(), types.ErrReadOnly)
}

func TestBackend_ReadOnlyMissingFile(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), ReadOnly: true})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
