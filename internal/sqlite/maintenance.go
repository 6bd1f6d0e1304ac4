package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// RewriteUserID sets the user id of every stored record, tombstones included,
// to newID and advances each record's updated_at. All kinds are rewritten in
// one transaction.
func (b *Backend) RewriteUserID(newID string) error {
	if newID == "" {
		return types.ErrInvalidID
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkWrite(); err != nil {
		return err
	}

	return b.inTx(func(tx *sql.Tx) error {
		for _, kind := range types.Kinds {
			t := tables[kind]
			stamps, err := updateStamps(tx, t)
			if err != nil {
				return err
			}
			for id, prev := range stamps {
				if _, err := tx.Exec("UPDATE "+t.name+" SET user_id = ?, updated_at = ? WHERE id = ?",
					newID, formatTime(b.stamp(prev)), id); err != nil {
					return fmt.Errorf("rewriting user id of %s %s: %w", kind, id, err)
				}
			}
		}
		return nil
	})
}

// WipeAll physically deletes every record of every kind.
func (b *Backend) WipeAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkWrite(); err != nil {
		return err
	}

	return b.inTx(func(tx *sql.Tx) error {
		for _, kind := range types.Kinds {
			if _, err := tx.Exec("DELETE FROM " + tables[kind].name); err != nil {
				return fmt.Errorf("wiping %s: %w", kind, err)
			}
		}
		return nil
	})
}

// updateStamps returns id → updated_at for every row of t.
func updateStamps(tx *sql.Tx, t *table) (map[string]time.Time, error) {
	rows, err := tx.Query("SELECT id, updated_at FROM " + t.name)
	if err != nil {
		return nil, fmt.Errorf("reading %s stamps: %w", t.kind, err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var ts time.Time
		if err := rows.Scan(&id, &timeColumn{&ts}); err != nil {
			return nil, fmt.Errorf("scanning %s stamp: %w", t.kind, err)
		}
		out[id] = ts
	}
	return out, rows.Err()
}
