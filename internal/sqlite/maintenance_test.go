package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func TestRewriteUserID(t *testing.T) {
	b := setupBackend(t)
	seedTree(t, b)
	gone := newTarget("tg1", 2025, 0, true)
	gone.IsDeleted = true
	upsertAll(t, b, gone)

	require.NoError(t, b.RewriteUserID("account-42"))

	for _, kind := range types.Kinds {
		es, err := b.Snapshot(kind)
		require.NoError(t, err)
		for _, e := range es {
			assert.Equal(t, "account-42", e.Meta().UserID, "%s %s", kind, e.Meta().ID)
			assert.Equal(t, t0.Add(time.Hour), e.Meta().UpdatedAt, "%s %s", kind, e.Meta().ID)
		}
	}
}

func TestRewriteUserID_EmptyID(t *testing.T) {
	b := setupBackend(t)
	assert.ErrorIs(t, b.RewriteUserID(""), types.ErrInvalidID)
}

func TestWipeAll(t *testing.T) {
	b := setupBackend(t)
	seedTree(t, b)
	require.NoError(t, b.CascadingSoftDelete(types.KindGroup, "g2"))

	require.NoError(t, b.WipeAll())

	for _, kind := range types.Kinds {
		es, err := b.Snapshot(kind)
		require.NoError(t, err)
		assert.Empty(t, es, kind)
	}
}

func TestBootstrap(t *testing.T) {
	b := setupBackend(t)

	require.NoError(t, b.Bootstrap(testUser))
	require.NoError(t, b.Bootstrap(testUser), "second run must not duplicate")

	free, err := b.FreeNote()
	require.NoError(t, err)
	assert.Equal(t, testUser, free.UserID)
	assert.Equal(t, types.FreeContent{Title: FreeNoteTitle}, free.Content)

	notes, err := b.Count(types.KindNote)
	require.NoError(t, err)
	assert.Equal(t, 1, notes)

	groups, err := b.List(types.KindGroup)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, FallbackGroupTitle, groups[0].(*types.Group).Title)
}

func TestBootstrap_KeepsExistingGroups(t *testing.T) {
	b := setupBackend(t)
	upsertAll(t, b, newGroup("g1", 3))

	require.NoError(t, b.Bootstrap(testUser))

	assert.Equal(t, []string{"g1"}, liveIDs(t, b, types.KindGroup))
}
