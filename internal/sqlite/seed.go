package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// Titles of the records Bootstrap creates.
const (
	FreeNoteTitle      = "Free note"
	FallbackGroupTitle = "Uncategorized"
)

// Bootstrap ensures the records a fresh store needs exist: the free note and,
// when no live group remains, a fallback group. Both are owned by userID.
// Bootstrap is idempotent and runs in one transaction.
func (b *Backend) Bootstrap(userID string) error {
	if userID == "" {
		return types.ErrInvalidID
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkWrite(); err != nil {
		return err
	}

	return b.inTx(func(tx *sql.Tx) error {
		now := b.now()

		n, err := countLive(tx, tables[types.KindNote], "note_type = ?", string(types.NoteTypeFree))
		if err != nil {
			return err
		}
		if n == 0 {
			note := &types.Note{
				Base:    types.NewBase(userID, 0, now),
				Date:    now,
				Weather: types.WeatherSunny,
				Content: types.FreeContent{Title: FreeNoteTitle},
			}
			if err := insert(tx, note); err != nil {
				return err
			}
		}

		n, err = countLive(tx, tables[types.KindGroup], "")
		if err != nil {
			return err
		}
		if n == 0 {
			group := &types.Group{Base: types.NewBase(userID, 0, now), Title: FallbackGroupTitle}
			if err := insert(tx, group); err != nil {
				return err
			}
		}
		return nil
	})
}

// countLive counts the live rows of t matching the optional extra condition.
func countLive(tx *sql.Tx, t *table, where string, args ...any) (int, error) {
	q := "SELECT COUNT(*) FROM " + t.name + " WHERE is_deleted = 0"
	if where != "" {
		q += " AND " + where
	}
	var n int
	if err := tx.QueryRow(q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", t.kind, err)
	}
	return n, nil
}

// insert upserts e inside tx.
func insert(tx *sql.Tx, e types.Entity) error {
	t := tables[e.Kind()]
	args, err := t.values(e)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(t.upsertSQL(), args...); err != nil {
		return fmt.Errorf("inserting %s %s: %w", e.Kind(), e.Meta().ID, err)
	}
	return nil
}
