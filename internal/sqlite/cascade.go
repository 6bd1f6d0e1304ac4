package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// node identifies one record during a cascade walk.
type node struct {
	kind types.Kind
	id   string
}

// CascadingSoftDelete tombstones the record and its whole cascade closure:
// Group→Task→Measures→Memo and Note→Memo, following the owner id columns.
// The walk runs in one transaction; any failure leaves every record as it
// was. Rows already tombstoned keep their stamps, so repeating the call
// changes nothing. The free note is refused with ErrFreeNoteProtected.
func (b *Backend) CascadingSoftDelete(kind types.Kind, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	root, err := lookup(kind)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkWrite(); err != nil {
		return err
	}

	return b.inTx(func(tx *sql.Tx) error {
		e, err := root.scan(tx.QueryRow(root.selectSQL("id = ?", ""), id))
		if err != nil {
			return fmt.Errorf("loading %s %s: %w", kind, id, notFound(err))
		}
		if n, ok := e.(*types.Note); ok && n.IsFree() {
			return types.ErrFreeNoteProtected
		}
		if !e.Meta().IsDeleted {
			if err := b.tombstone(tx, root, id, e.Meta().UpdatedAt); err != nil {
				return err
			}
		}
		return b.walkChildren(tx, node{kind: kind, id: id})
	})
}

// walkChildren tombstones every live descendant of start. The closure is
// computed breadth-first over the children table; visited guards against a
// record being reached twice (a memo is owned by both a measures and a note).
// Tombstoned children keep their stamps but are still walked, so live rows
// below them are reached.
func (b *Backend) walkChildren(tx *sql.Tx, start node) error {
	queue := []node{start}
	visited := map[node]bool{start: true}

	for len(queue) > 0 {
		owner := queue[0]
		queue = queue[1:]

		for _, ref := range children[owner.kind] {
			child := tables[ref.kind]
			rows, err := ownedRows(tx, child, ref.column, owner.id)
			if err != nil {
				return err
			}
			for _, r := range rows {
				n := node{kind: ref.kind, id: r.id}
				if visited[n] {
					continue
				}
				visited[n] = true
				if !r.deleted {
					if err := b.tombstone(tx, child, r.id, r.updatedAt); err != nil {
						return err
					}
				}
				queue = append(queue, n)
			}
		}
	}
	return nil
}

// ownedRow is one child found during a cascade walk.
type ownedRow struct {
	id        string
	updatedAt time.Time
	deleted   bool
}

// ownedRows returns the rows of t whose column equals ownerID, tombstoned
// or not, in id order.
func ownedRows(tx *sql.Tx, t *table, column, ownerID string) ([]ownedRow, error) {
	rows, err := tx.Query(
		"SELECT id, updated_at, is_deleted FROM "+t.name+" WHERE "+column+" = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("finding %s under %s: %w", t.kind, ownerID, err)
	}
	defer rows.Close()

	var out []ownedRow
	for rows.Next() {
		var r ownedRow
		if err := rows.Scan(&r.id, &timeColumn{&r.updatedAt}, &r.deleted); err != nil {
			return nil, fmt.Errorf("scanning %s child: %w", t.kind, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// tombstone marks one row deleted and advances its updated_at.
func (b *Backend) tombstone(tx *sql.Tx, t *table, id string, prev time.Time) error {
	next := b.stamp(prev)
	if _, err := tx.Exec(
		"UPDATE "+t.name+" SET is_deleted = 1, updated_at = ? WHERE id = ?",
		formatTime(next), id); err != nil {
		return fmt.Errorf("tombstoning %s %s: %w", t.kind, id, err)
	}
	return nil
}
