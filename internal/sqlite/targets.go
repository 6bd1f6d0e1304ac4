package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// SaveTarget stores t and tombstones any other live target occupying the same
// slot (the year for a yearly target, the year and month for a monthly one).
// Both steps run in one transaction.
func (b *Backend) SaveTarget(t *types.Target) error {
	if err := types.Validate(t); err != nil {
		return err
	}
	tt := tables[types.KindTarget]
	args, err := tt.values(t)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkWrite(); err != nil {
		return err
	}

	return b.inTx(func(tx *sql.Tx) error {
		where := "is_deleted = 0 AND id != ? AND is_yearly_target = ? AND year = ?"
		slotArgs := []any{t.ID, t.IsYearlyTarget, t.Year}
		if !t.IsYearlyTarget {
			where += " AND month = ?"
			slotArgs = append(slotArgs, t.Month)
		}
		existing, err := queryTable(tx, tt, where, "", slotArgs...)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if err := b.tombstone(tx, tt, e.Meta().ID, e.Meta().UpdatedAt); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(tt.upsertSQL(), args...); err != nil {
			return fmt.Errorf("saving target %s: %w", t.ID, err)
		}
		return nil
	})
}

// TargetsForYear returns the live yearly target and the live monthly targets
// of year, yearly first and then by month.
func (b *Backend) TargetsForYear(year int) ([]*types.Target, error) {
	es, err := b.query(types.KindTarget, "year = ? AND is_deleted = 0",
		"is_yearly_target DESC, month ASC, created_at ASC", year)
	return as[*types.Target](es), err
}
