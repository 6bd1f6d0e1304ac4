package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// liveOrder is the display ordering used by every list query. Ties in
// display_order fall back to creation time and then id so results are stable.
const liveOrder = "display_order ASC, created_at ASC, id ASC"

// Upsert inserts e or overwrites the stored record with the same id, whole
// record, in a single statement. Timestamps are stored exactly as given;
// callers stamp UpdatedAt before a local edit. A tombstoned free note is
// refused with ErrFreeNoteProtected.
func (b *Backend) Upsert(e types.Entity) error {
	if err := types.Validate(e); err != nil {
		return err
	}
	if err := checkFreeNote(e); err != nil {
		return err
	}
	t, err := lookup(e.Kind())
	if err != nil {
		return err
	}
	args, err := t.values(e)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkWrite(); err != nil {
		return err
	}

	if _, err := b.db.Exec(t.upsertSQL(), args...); err != nil {
		return fmt.Errorf("upserting %s %s: %w", e.Kind(), e.Meta().ID, err)
	}
	return nil
}

// checkFreeNote refuses a tombstoned free note.
func checkFreeNote(e types.Entity) error {
	if n, ok := e.(*types.Note); ok && n.IsFree() && n.IsDeleted {
		return fmt.Errorf("note %s: %w", n.ID, types.ErrFreeNoteProtected)
	}
	return nil
}

// Get returns the record with id unless it is tombstoned.
// Returns ErrNotFound for a missing or tombstoned record.
func (b *Backend) Get(kind types.Kind, id string) (types.Entity, error) {
	e, err := b.GetRaw(kind, id)
	if err != nil {
		return nil, err
	}
	if e.Meta().IsDeleted {
		return nil, types.ErrNotFound
	}
	return e, nil
}

// GetRaw returns the record with id whether or not it is tombstoned.
func (b *Backend) GetRaw(kind types.Kind, id string) (types.Entity, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkRead(); err != nil {
		return nil, err
	}

	e, err := t.scan(b.db.QueryRow(t.selectSQL("id = ?", ""), id))
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", kind, id, notFound(err))
	}
	return e, nil
}

// List returns every live record of kind sorted ascending by display order.
func (b *Backend) List(kind types.Kind) ([]types.Entity, error) {
	return b.query(kind, "is_deleted = 0", liveOrder)
}

// Snapshot returns every record of kind including tombstones. The
// reconciliation engine diffs against it so deletions reach the remote side.
func (b *Backend) Snapshot(kind types.Kind) ([]types.Entity, error) {
	return b.query(kind, "", liveOrder)
}

// Count returns the number of live records of kind.
func (b *Backend) Count(kind types.Kind) (int, error) {
	t, err := lookup(kind)
	if err != nil {
		return 0, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkRead(); err != nil {
		return 0, err
	}

	var n int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM " + t.name + " WHERE is_deleted = 0").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}

// query runs a SELECT over kind's table under the read lock.
func (b *Backend) query(kind types.Kind, where, order string, args ...any) ([]types.Entity, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkRead(); err != nil {
		return nil, err
	}

	return queryTable(b.db, t, where, order, args...)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func queryTable(q querier, t *table, where, order string, args ...any) ([]types.Entity, error) {
	rows, err := q.Query(t.selectSQL(where, order), args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.kind, err)
	}
	defer rows.Close()

	var out []types.Entity
	for rows.Next() {
		e, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.kind, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.kind, err)
	}
	return out, nil
}
