package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func TestUpsert_RoundTrip(t *testing.T) {
	tournament := newNote("n2", t0.Add(48*time.Hour), types.TournamentContent{
		Target: "first serve in", Consciousness: "toss", Result: "6-4 6-3",
	})
	tournament.Weather = types.WeatherRainy
	tournament.Condition = "tired"
	tournament.Reflection = "sleep more"

	tests := []struct {
		name   string
		entity types.Entity
	}{
		{"group", newGroup("g1", 7)},
		{"task", &types.Task{Base: base("t1", 2), GroupID: "g1", Title: "Serve", Cause: "toss", IsComplete: true}},
		{"measures", newMeasures("m1", "t1")},
		{"memo", newMemo("memo1", "m1", "n1")},
		{"free note", newNote("free", t0, types.FreeContent{Title: "Free note", Detail: "scratch"})},
		{"practice note", practice("n1", t0.Add(123456789*time.Nanosecond))},
		{"tournament note", tournament},
		{"monthly target", newTarget("tg1", 2025, 4, false)},
		{"yearly target", newTarget("tg2", 2025, 0, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			require.NoError(t, b.Upsert(tt.entity))

			got, err := b.Get(tt.entity.Kind(), tt.entity.Meta().ID)
			require.NoError(t, err)
			assert.Equal(t, tt.entity, got)
		})
	}
}

func TestUpsert_Overwrites(t *testing.T) {
	b := setupBackend(t)
	g := newGroup("g1", 1)
	require.NoError(t, b.Upsert(g))

	g.Title = "renamed"
	g.ColorIndex = 5
	g.UpdatedAt = t0.Add(time.Minute)
	require.NoError(t, b.Upsert(g))

	got, err := b.Get(types.KindGroup, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, got)

	n, err := b.Count(types.KindGroup)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsert_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		entity types.Entity
		want   error
	}{
		{"empty id", newGroup("", 0), types.ErrInvalidID},
		{"color out of range", newGroup("g1", types.ColorCount), types.ErrInvalidData},
		{"note without content", newNote("n1", t0, nil), types.ErrInvalidData},
		{"month out of range", newTarget("tg1", 2025, 13, false), types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			assert.ErrorIs(t, b.Upsert(tt.entity), tt.want)
		})
	}
}

func TestUpsert_TombstonedFreeNote(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.Bootstrap(testUser))
	free, err := b.FreeNote()
	require.NoError(t, err)

	free.IsDeleted = true
	assert.ErrorIs(t, b.Upsert(free), types.ErrFreeNoteProtected)

	n, err := b.Count(types.KindNote)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := b.FreeNote()
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestGet_Tombstoned(t *testing.T) {
	b := setupBackend(t)
	g := newGroup("g1", 0)
	g.IsDeleted = true
	require.NoError(t, b.Upsert(g))

	_, err := b.Get(types.KindGroup, "g1")
	assert.ErrorIs(t, err, types.ErrNotFound)

	raw, err := b.GetRaw(types.KindGroup, "g1")
	require.NoError(t, err)
	assert.True(t, raw.Meta().IsDeleted)
}

func TestGet_Errors(t *testing.T) {
	b := setupBackend(t)

	_, err := b.Get(types.KindGroup, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = b.Get(types.KindGroup, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)

	_, err = b.Get(types.Kind("crumbs"), "x")
	assert.ErrorIs(t, err, types.ErrUnknownKind)
}

func TestList_OrderAndTombstones(t *testing.T) {
	b := setupBackend(t)

	early := &types.Group{Base: base("b", 1), Title: "b"}
	late := &types.Group{Base: base("a", 1), Title: "a"}
	late.CreatedAt = t0.Add(time.Second)
	first := &types.Group{Base: base("c", 0), Title: "c"}
	gone := &types.Group{Base: base("d", -1), Title: "d"}
	gone.IsDeleted = true
	upsertAll(t, b, late, early, first, gone)

	got, err := b.List(types.KindGroup)
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.Meta().ID
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	n, err := b.Count(types.KindGroup)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := b.Snapshot(types.KindGroup)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestList_Empty(t *testing.T) {
	b := setupBackend(t)
	for _, kind := range types.Kinds {
		got, err := b.List(kind)
		require.NoError(t, err)
		assert.Empty(t, got, kind)
	}
}
