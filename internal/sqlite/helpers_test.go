package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

const testUser = "user-1"

// t0 is the reference instant for fixtures. Stored times come back in UTC, so
// fixtures use UTC too.
var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// setupBackend creates an attached Backend in a temp dir whose clock is fixed
// at t0 plus one hour.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(WithClock(func() time.Time { return t0.Add(time.Hour) }))
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func base(id string, order int) types.Base {
	return types.Base{ID: id, UserID: testUser, Order: order, CreatedAt: t0, UpdatedAt: t0}
}

func newGroup(id string, color int) *types.Group {
	return &types.Group{Base: base(id, 0), Title: "group " + id, ColorIndex: color}
}

func newTask(id, groupID string) *types.Task {
	return &types.Task{Base: base(id, 0), GroupID: groupID, Title: "task " + id, Cause: "cause"}
}

func newMeasures(id, taskID string) *types.Measures {
	return &types.Measures{Base: base(id, 0), TaskID: taskID, Title: "measures " + id}
}

func newMemo(id, measuresID, noteID string) *types.Memo {
	return &types.Memo{Base: base(id, 0), MeasuresID: measuresID, NoteID: noteID, Detail: "memo " + id, NoteDate: t0}
}

func newNote(id string, date time.Time, content types.NoteContent) *types.Note {
	return &types.Note{Base: base(id, 0), Date: date, Weather: types.WeatherCloudy, Temperature: 18, Content: content}
}

func practice(id string, date time.Time) *types.Note {
	return newNote(id, date, types.PracticeContent{Purpose: "footwork", Detail: "split step"})
}

func newTarget(id string, year, month int, yearly bool) *types.Target {
	return &types.Target{Base: base(id, 0), Title: "target " + id, Year: year, Month: month, IsYearlyTarget: yearly}
}

func upsertAll(t *testing.T, b *Backend, es ...types.Entity) {
	t.Helper()
	for _, e := range es {
		require.NoError(t, b.Upsert(e))
	}
}

// seedTree stores g1→t1→m1→memo1 with memo1 also written in note n1, plus an
// unrelated branch g2→t2→m2→memo2 written in note n2.
func seedTree(t *testing.T, b *Backend) {
	t.Helper()
	upsertAll(t, b,
		newGroup("g1", 1), newTask("t1", "g1"), newMeasures("m1", "t1"),
		practice("n1", t0), newMemo("memo1", "m1", "n1"),
		newGroup("g2", 2), newTask("t2", "g2"), newMeasures("m2", "t2"),
		practice("n2", t0), newMemo("memo2", "m2", "n2"),
	)
}
