package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// timeLayout is a fixed-width UTC layout. Unlike RFC3339Nano it keeps every
// fractional digit, so stored values sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// timeColumn adapts a *time.Time to a TEXT column in timeLayout.
type timeColumn struct {
	t *time.Time
}

// Value implements driver.Valuer.
func (c timeColumn) Value() (driver.Value, error) {
	return formatTime(*c.t), nil
}

// Scan implements sql.Scanner.
func (c *timeColumn) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scanning time column: unexpected type %T", src)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("parsing time column: %w", err)
	}
	*c.t = t
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// baseColumns are the metadata columns every table starts with.
var baseColumns = []string{"id", "user_id", "display_order", "is_deleted", "created_at", "updated_at"}

func baseValues(b *types.Base) []any {
	return []any{b.ID, b.UserID, b.Order, b.IsDeleted, timeColumn{&b.CreatedAt}, timeColumn{&b.UpdatedAt}}
}

func baseDest(b *types.Base) []any {
	return []any{&b.ID, &b.UserID, &b.Order, &b.IsDeleted, &timeColumn{&b.CreatedAt}, &timeColumn{&b.UpdatedAt}}
}

// table maps one record kind onto its SQLite table. columns lists the
// variant columns in the order bind produces values and scan consumes them.
type table struct {
	kind    types.Kind
	name    string
	columns []string
	bind    func(e types.Entity) ([]any, error)
	scan    func(r rowScanner) (types.Entity, error)
}

// childRef names a table whose column points at the owner's id.
type childRef struct {
	kind   types.Kind
	column string
}

// children is the ownership table walked by CascadingSoftDelete.
var children = map[types.Kind][]childRef{
	types.KindGroup:    {{types.KindTask, "group_id"}},
	types.KindTask:     {{types.KindMeasures, "task_id"}},
	types.KindMeasures: {{types.KindMemo, "measures_id"}},
	types.KindNote:     {{types.KindMemo, "note_id"}},
}

var tables = map[types.Kind]*table{
	types.KindGroup: {
		kind:    types.KindGroup,
		name:    `"groups"`,
		columns: []string{"title", "color_index"},
		bind: func(e types.Entity) ([]any, error) {
			g, ok := e.(*types.Group)
			if !ok {
				return nil, wrongType(types.KindGroup, e)
			}
			return []any{g.Title, g.ColorIndex}, nil
		},
		scan: func(r rowScanner) (types.Entity, error) {
			g := &types.Group{}
			err := r.Scan(append(baseDest(&g.Base), &g.Title, &g.ColorIndex)...)
			return g, err
		},
	},
	types.KindTask: {
		kind:    types.KindTask,
		name:    "tasks",
		columns: []string{"group_id", "title", "cause", "is_complete"},
		bind: func(e types.Entity) ([]any, error) {
			t, ok := e.(*types.Task)
			if !ok {
				return nil, wrongType(types.KindTask, e)
			}
			return []any{t.GroupID, t.Title, t.Cause, t.IsComplete}, nil
		},
		scan: func(r rowScanner) (types.Entity, error) {
			t := &types.Task{}
			err := r.Scan(append(baseDest(&t.Base), &t.GroupID, &t.Title, &t.Cause, &t.IsComplete)...)
			return t, err
		},
	},
	types.KindMeasures: {
		kind:    types.KindMeasures,
		name:    "measures",
		columns: []string{"task_id", "title"},
		bind: func(e types.Entity) ([]any, error) {
			m, ok := e.(*types.Measures)
			if !ok {
				return nil, wrongType(types.KindMeasures, e)
			}
			return []any{m.TaskID, m.Title}, nil
		},
		scan: func(r rowScanner) (types.Entity, error) {
			m := &types.Measures{}
			err := r.Scan(append(baseDest(&m.Base), &m.TaskID, &m.Title)...)
			return m, err
		},
	},
	types.KindMemo: {
		kind:    types.KindMemo,
		name:    "memos",
		columns: []string{"measures_id", "note_id", "detail", "note_date"},
		bind: func(e types.Entity) ([]any, error) {
			m, ok := e.(*types.Memo)
			if !ok {
				return nil, wrongType(types.KindMemo, e)
			}
			return []any{m.MeasuresID, m.NoteID, m.Detail, timeColumn{&m.NoteDate}}, nil
		},
		scan: func(r rowScanner) (types.Entity, error) {
			m := &types.Memo{}
			err := r.Scan(append(baseDest(&m.Base), &m.MeasuresID, &m.NoteID, &m.Detail, &timeColumn{&m.NoteDate})...)
			return m, err
		},
	},
	types.KindNote: {
		kind: types.KindNote,
		name: "notes",
		columns: []string{
			"note_type", "date", "weather", "temperature", "condition", "reflection",
			"title", "purpose", "detail", "target", "consciousness", "result",
		},
		bind: bindNote,
		scan: scanNote,
	},
	types.KindTarget: {
		kind:    types.KindTarget,
		name:    "targets",
		columns: []string{"title", "year", "month", "is_yearly_target"},
		bind: func(e types.Entity) ([]any, error) {
			t, ok := e.(*types.Target)
			if !ok {
				return nil, wrongType(types.KindTarget, e)
			}
			return []any{t.Title, t.Year, t.Month, t.IsYearlyTarget}, nil
		},
		scan: func(r rowScanner) (types.Entity, error) {
			t := &types.Target{}
			err := r.Scan(append(baseDest(&t.Base), &t.Title, &t.Year, &t.Month, &t.IsYearlyTarget)...)
			return t, err
		},
	},
}

// noteTextColumns are the note columns covered by SearchNotes.
var noteTextColumns = []string{
	"title", "purpose", "detail", "target", "consciousness", "result", "condition", "reflection",
}

func bindNote(e types.Entity) ([]any, error) {
	n, ok := e.(*types.Note)
	if !ok {
		return nil, wrongType(types.KindNote, e)
	}
	var title, purpose, detail, target, consciousness, result string
	switch c := n.Content.(type) {
	case types.FreeContent:
		title, detail = c.Title, c.Detail
	case types.PracticeContent:
		purpose, detail = c.Purpose, c.Detail
	case types.TournamentContent:
		target, consciousness, result = c.Target, c.Consciousness, c.Result
	}
	return []any{
		string(n.Type()), timeColumn{&n.Date}, int(n.Weather), n.Temperature, n.Condition, n.Reflection,
		title, purpose, detail, target, consciousness, result,
	}, nil
}

func scanNote(r rowScanner) (types.Entity, error) {
	n := &types.Note{}
	var noteType, title, purpose, detail, target, consciousness, result string
	var weather int
	dest := append(baseDest(&n.Base),
		&noteType, &timeColumn{&n.Date}, &weather, &n.Temperature, &n.Condition, &n.Reflection,
		&title, &purpose, &detail, &target, &consciousness, &result)
	if err := r.Scan(dest...); err != nil {
		return nil, err
	}
	content, err := types.NewNoteContent(types.NoteType(noteType), title, purpose, detail, target, consciousness, result)
	if err != nil {
		return nil, err
	}
	n.Weather = types.Weather(weather)
	n.Content = content
	return n, nil
}

func wrongType(kind types.Kind, e types.Entity) error {
	return fmt.Errorf("%w: %T is not a %s record", types.ErrInvalidData, e, kind)
}

// lookup returns the table for kind.
func lookup(kind types.Kind) (*table, error) {
	t, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}
	return t, nil
}

// allColumns returns the metadata columns followed by the variant columns.
func (t *table) allColumns() []string {
	cols := make([]string, 0, len(baseColumns)+len(t.columns))
	cols = append(cols, baseColumns...)
	return append(cols, t.columns...)
}

// selectSQL returns a SELECT of every column; where and order are appended
// verbatim when non-empty.
func (t *table) selectSQL(where, order string) string {
	q := "SELECT " + strings.Join(t.allColumns(), ", ") + " FROM " + t.name
	if where != "" {
		q += " WHERE " + where
	}
	if order != "" {
		q += " ORDER BY " + order
	}
	return q
}

// upsertSQL returns an insert that overwrites every column on id conflict.
func (t *table) upsertSQL() string {
	cols := t.allColumns()
	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, c := range cols {
		placeholders[i] = "?"
		if c != "id" {
			updates = append(updates, c+" = excluded."+c)
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		t.name, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

// values returns the arguments for upsertSQL.
func (t *table) values(e types.Entity) ([]any, error) {
	variant, err := t.bind(e)
	if err != nil {
		return nil, err
	}
	return append(baseValues(e.Meta()), variant...), nil
}
