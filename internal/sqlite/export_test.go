package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func TestExportImport_RoundTrip(t *testing.T) {
	src := setupBackend(t)
	seedTree(t, src)
	require.NoError(t, src.SaveTarget(newTarget("tg1", 2025, 0, true)))
	upsertAll(t, src, newNote("free", t0, types.FreeContent{Title: "Free note", Detail: "scratch"}))
	require.NoError(t, src.CascadingSoftDelete(types.KindGroup, "g2"))

	dir := t.TempDir()
	require.NoError(t, src.ExportJSONL(dir))
	for _, kind := range types.Kinds {
		_, err := os.Stat(filepath.Join(dir, string(kind)+".jsonl"))
		assert.NoError(t, err, kind)
	}

	dst := setupBackend(t)
	n, err := dst.ImportJSONL(dir)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, kind := range types.Kinds {
		want, err := src.Snapshot(kind)
		require.NoError(t, err)
		got, err := dst.Snapshot(kind)
		require.NoError(t, err)
		assert.Equal(t, want, got, kind)
	}
}

func TestImportJSONL_SkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	lines := `{"id":"g1","user_id":"user-1","title":"ok","color":2,"created_at":"2025-03-01T09:00:00Z","updated_at":"2025-03-01T09:00:00Z"}
not json
{"id":"g2","title":"bad color","color":99}

{"id":"","title":"no id"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "groups.jsonl"), []byte(lines), 0o644))

	b := setupBackend(t)
	n, err := b.ImportJSONL(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := b.Get(types.KindGroup, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.(*types.Group).ColorIndex)
}

func TestImportJSONL_SkipsTombstonedFreeNote(t *testing.T) {
	dir := t.TempDir()
	lines := `{"id":"free","user_id":"user-1","note_type":"free","title":"Free note","date":"2025-03-01T09:00:00Z","is_deleted":true,"created_at":"2025-03-01T09:00:00Z","updated_at":"2025-03-01T09:00:00Z"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.jsonl"), []byte(lines), 0o644))

	b := setupBackend(t)
	n, err := b.ImportJSONL(dir)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = b.GetRaw(types.KindNote, "free")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestExportJSONL_Detached(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.Detach())

	assert.ErrorIs(t, b.ExportJSONL(t.TempDir()), types.ErrDetached)
	_, err := b.ImportJSONL(t.TempDir())
	assert.ErrorIs(t, err, types.ErrDetached)
}
