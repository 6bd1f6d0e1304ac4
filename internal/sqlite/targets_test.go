package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func TestSaveTarget_ReplacesSameSlot(t *testing.T) {
	tests := []struct {
		name     string
		existing []*types.Target
		save     *types.Target
		live     []string
	}{
		{
			name:     "yearly replaces yearly of same year",
			existing: []*types.Target{newTarget("old", 2025, 0, true)},
			save:     newTarget("new", 2025, 0, true),
			live:     []string{"new"},
		},
		{
			name:     "yearly leaves other years",
			existing: []*types.Target{newTarget("old", 2024, 0, true)},
			save:     newTarget("new", 2025, 0, true),
			live:     []string{"old", "new"},
		},
		{
			name:     "monthly replaces same month",
			existing: []*types.Target{newTarget("march", 2025, 3, false)},
			save:     newTarget("new", 2025, 3, false),
			live:     []string{"new"},
		},
		{
			name: "monthly leaves other months and the yearly target",
			existing: []*types.Target{
				newTarget("year", 2025, 3, true),
				newTarget("april", 2025, 4, false),
			},
			save: newTarget("new", 2025, 3, false),
			live: []string{"year", "april", "new"},
		},
		{
			name:     "re-saving the same id keeps it",
			existing: []*types.Target{newTarget("same", 2025, 0, true)},
			save:     newTarget("same", 2025, 0, true),
			live:     []string{"same"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			for _, e := range tt.existing {
				require.NoError(t, b.SaveTarget(e))
			}

			require.NoError(t, b.SaveTarget(tt.save))

			assert.ElementsMatch(t, tt.live, liveIDs(t, b, types.KindTarget))
		})
	}
}

func TestSaveTarget_TombstoneIsStamped(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.SaveTarget(newTarget("old", 2025, 0, true)))
	require.NoError(t, b.SaveTarget(newTarget("new", 2025, 0, true)))

	raw, err := b.GetRaw(types.KindTarget, "old")
	require.NoError(t, err)
	assert.True(t, raw.Meta().IsDeleted)
	assert.Equal(t, t0.Add(time.Hour), raw.Meta().UpdatedAt)
}

func TestTargetsForYear(t *testing.T) {
	b := setupBackend(t)
	for _, tg := range []*types.Target{
		newTarget("may", 2025, 5, false),
		newTarget("jan", 2025, 1, false),
		newTarget("year", 2025, 0, true),
		newTarget("other", 2026, 1, false),
	} {
		require.NoError(t, b.SaveTarget(tg))
	}

	got, err := b.TargetsForYear(2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "jan", "may"}, ids(got))
}
