package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL. Every table starts with the shared metadata columns. Times are
// stored as fixed-width UTC text (see timeLayout) so range scans compare
// lexically. Owner references are plain text columns; the store walks them
// itself rather than relying on SQLite foreign keys.
const (
	createGroups = `CREATE TABLE IF NOT EXISTS "groups" (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    title TEXT NOT NULL,
    color_index INTEGER NOT NULL
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    group_id TEXT NOT NULL,
    title TEXT NOT NULL,
    cause TEXT NOT NULL,
    is_complete INTEGER NOT NULL DEFAULT 0
);`

	createMeasures = `CREATE TABLE IF NOT EXISTS measures (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    task_id TEXT NOT NULL,
    title TEXT NOT NULL
);`

	createMemos = `CREATE TABLE IF NOT EXISTS memos (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    measures_id TEXT NOT NULL,
    note_id TEXT NOT NULL,
    detail TEXT NOT NULL,
    note_date TEXT NOT NULL
);`

	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    note_type TEXT NOT NULL,
    date TEXT NOT NULL,
    weather INTEGER NOT NULL DEFAULT 0,
    temperature INTEGER NOT NULL DEFAULT 0,
    condition TEXT NOT NULL DEFAULT '',
    reflection TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    purpose TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT '',
    target TEXT NOT NULL DEFAULT '',
    consciousness TEXT NOT NULL DEFAULT '',
    result TEXT NOT NULL DEFAULT ''
);`

	createTargets = `CREATE TABLE IF NOT EXISTS targets (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    title TEXT NOT NULL,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    is_yearly_target INTEGER NOT NULL DEFAULT 0
);`
)

// Index DDL for the owner walks and the specialized queries.
const (
	idxTasksGroup    = `CREATE INDEX IF NOT EXISTS idx_tasks_group ON tasks(group_id);`
	idxMeasuresTask  = `CREATE INDEX IF NOT EXISTS idx_measures_task ON measures(task_id);`
	idxMemosMeasures = `CREATE INDEX IF NOT EXISTS idx_memos_measures ON memos(measures_id);`
	idxMemosNote     = `CREATE INDEX IF NOT EXISTS idx_memos_note ON memos(note_id);`
	idxNotesDate     = `CREATE INDEX IF NOT EXISTS idx_notes_date ON notes(date);`
	idxNotesType     = `CREATE INDEX IF NOT EXISTS idx_notes_type ON notes(note_type);`
	idxTargetsSlot   = `CREATE INDEX IF NOT EXISTS idx_targets_slot ON targets(is_yearly_target, year, month);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createGroups,
	createTasks,
	createMeasures,
	createMemos,
	createNotes,
	createTargets,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTasksGroup,
	idxMeasuresTask,
	idxMemosMeasures,
	idxMemosNote,
	idxNotesDate,
	idxNotesType,
	idxTargetsSlot,
}

// createSchema applies every table and index statement in one transaction.
func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range append(schemaDDL, indexDDL...) {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}
