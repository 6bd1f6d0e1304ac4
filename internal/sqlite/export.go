package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// ExportJSONL writes every record, tombstones included, to one
// <kind>.jsonl file per kind under dir. Each file is replaced atomically.
func (b *Backend) ExportJSONL(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	for _, kind := range types.Kinds {
		es, err := b.Snapshot(kind)
		if err != nil {
			return err
		}
		records := make([]json.RawMessage, 0, len(es))
		for _, e := range es {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("encoding %s %s: %w", kind, e.Meta().ID, err)
			}
			records = append(records, data)
		}
		if err := writeJSONL(jsonlFile(dir, string(kind)), records); err != nil {
			return fmt.Errorf("exporting %s: %w", kind, err)
		}
	}
	return nil
}

// ImportJSONL upserts the records found in the <kind>.jsonl files under dir
// and returns how many were stored. Missing files are skipped, as are lines
// that do not decode to a valid record and tombstoned free notes. Loading is transactional: either
// every valid record is stored or none is.
func (b *Backend) ImportJSONL(dir string) (int, error) {
	batches := make(map[types.Kind][]types.Entity)
	for _, kind := range types.Kinds {
		records, err := readJSONL(jsonlFile(dir, string(kind)))
		if err != nil {
			return 0, err
		}
		for _, rec := range records {
			e := kind.New()
			if err := json.Unmarshal(rec, e); err != nil {
				continue
			}
			if types.Validate(e) != nil || checkFreeNote(e) != nil {
				continue
			}
			batches[kind] = append(batches[kind], e)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkWrite(); err != nil {
		return 0, err
	}

	var n int
	err := b.inTx(func(tx *sql.Tx) error {
		for _, kind := range types.Kinds {
			for _, e := range batches[kind] {
				if err := insert(tx, e); err != nil {
					return err
				}
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("importing records: %w", err)
	}
	return n, nil
}
