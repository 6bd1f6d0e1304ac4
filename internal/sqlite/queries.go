package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// CompletedTasks returns the live, completed tasks of a group.
func (b *Backend) CompletedTasks(groupID string) ([]*types.Task, error) {
	es, err := b.query(types.KindTask, "group_id = ? AND is_complete = 1 AND is_deleted = 0", liveOrder, groupID)
	return as[*types.Task](es), err
}

// TasksByGroup returns the live tasks of a group.
func (b *Backend) TasksByGroup(groupID string) ([]*types.Task, error) {
	es, err := b.query(types.KindTask, "group_id = ? AND is_deleted = 0", liveOrder, groupID)
	return as[*types.Task](es), err
}

// MeasuresByTask returns the live measures of a task in display order.
func (b *Backend) MeasuresByTask(taskID string) ([]*types.Measures, error) {
	es, err := b.query(types.KindMeasures, "task_id = ? AND is_deleted = 0", liveOrder, taskID)
	return as[*types.Measures](es), err
}

// FreeNote returns the live scratch note. When sync has brought in more than
// one, the oldest wins. Returns ErrNotFound before bootstrap.
func (b *Backend) FreeNote() (*types.Note, error) {
	es, err := b.query(types.KindNote, "note_type = ? AND is_deleted = 0", "created_at ASC, id ASC", string(types.NoteTypeFree))
	if err != nil {
		return nil, err
	}
	if len(es) == 0 {
		return nil, types.ErrNotFound
	}
	return es[0].(*types.Note), nil
}

// SearchNotes returns live notes whose textual fields contain text, matched
// case-insensitively on any field. Every live free note is part of the
// result regardless of text. Each note appears once, newest date first.
func (b *Backend) SearchNotes(text string) ([]*types.Note, error) {
	pattern := "%" + escapeLike(text) + "%"
	conds := make([]string, len(noteTextColumns))
	args := []any{string(types.NoteTypeFree)}
	for i, col := range noteTextColumns {
		conds[i] = col + ` LIKE ? ESCAPE '\'`
		args = append(args, pattern)
	}
	where := "is_deleted = 0 AND (note_type = ? OR " + strings.Join(conds, " OR ") + ")"

	es, err := b.query(types.KindNote, where, "date DESC, id ASC", args...)
	return as[*types.Note](es), err
}

// NotesOnDay returns the live practice and tournament notes whose date falls
// on the calendar day of day, in day's location.
func (b *Backend) NotesOnDay(day time.Time) ([]*types.Note, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	es, err := b.query(types.KindNote,
		"date >= ? AND date < ? AND note_type != ? AND is_deleted = 0", "date ASC, id ASC",
		formatTime(start), formatTime(end), string(types.NoteTypeFree))
	return as[*types.Note](es), err
}

// MemosByMeasures returns the live memos of a measures by creation time.
func (b *Backend) MemosByMeasures(measuresID string) ([]*types.Memo, error) {
	es, err := b.query(types.KindMemo, "measures_id = ? AND is_deleted = 0", "created_at ASC, id ASC", measuresID)
	return as[*types.Memo](es), err
}

// MemosByNote returns the live memos written in a note by creation time.
func (b *Backend) MemosByNote(noteID string) ([]*types.Memo, error) {
	es, err := b.query(types.KindMemo, "note_id = ? AND is_deleted = 0", "created_at ASC, id ASC", noteID)
	return as[*types.Memo](es), err
}

// GroupColor resolves the color of the group a memo belongs to by walking
// Memo→Measures→Task→Group. Returns ErrNotFound when a link is missing.
func (b *Backend) GroupColor(memoID string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkRead(); err != nil {
		return 0, err
	}

	var color int
	err := b.db.QueryRow(`
		SELECT g.color_index
		FROM memos m
		JOIN measures ms ON ms.id = m.measures_id
		JOIN tasks t ON t.id = ms.task_id
		JOIN "groups" g ON g.id = t.group_id
		WHERE m.id = ?`, memoID).Scan(&color)
	if err != nil {
		return 0, fmt.Errorf("resolving color of memo %s: %w", memoID, notFound(err))
	}
	return color, nil
}

// escapeLike escapes the LIKE wildcards in s for use with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// as converts query results to their concrete type.
func as[T types.Entity](es []types.Entity) []T {
	out := make([]T, 0, len(es))
	for _, e := range es {
		out = append(out, e.(T))
	}
	return out
}
