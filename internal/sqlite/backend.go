// Package sqlite implements the on-device store for courtnote records on top
// of SQLite. Every record kind lives in its own table with the shared
// metadata columns first; deletion is logical (is_deleted) except for WipeAll.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// busyTimeoutMillis bounds how long a connection waits on a lock held by the
// other process sharing the file.
const busyTimeoutMillis = 5000

// Backend is the SQLite local store. Writes take the exclusive lock so each
// write call is atomic with respect to other callers; reads share the lock.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	now      func() time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock replaces the wall clock used to stamp updated_at on store-driven
// mutations (cascading deletes, target replacement, user-id rewrite).
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the database file under config.DataDir. A writable attach
// creates DataDir and the schema when missing. A read-only attach requires an
// existing file and never writes to it, so a companion process can read
// while the primary process holds the file open for writes.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	dbPath := filepath.Join(dataDir, types.DatabaseFile)

	if config.ReadOnly {
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("opening read-only store: %w", err)
		}
	} else if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath, config.ReadOnly))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("pinging database: %w", err)
	}

	if !config.ReadOnly {
		if err := createSchema(db); err != nil {
			db.Close()
			return err
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// dsn builds the modernc.org/sqlite connection string. Writers use WAL so
// readers in another process are not blocked.
func dsn(path string, readOnly bool) string {
	s := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busyTimeoutMillis)
	if readOnly {
		return s + "&mode=ro"
	}
	return s + "&_pragma=journal_mode(WAL)"
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	b.db = nil
	b.attached = false
	return nil
}

// ReadOnly reports whether the backend was attached read-only.
func (b *Backend) ReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.ReadOnly
}

// checkRead returns ErrDetached when the backend is not attached.
// The caller must hold b.mu.
func (b *Backend) checkRead() error {
	if !b.attached {
		return types.ErrDetached
	}
	return nil
}

// checkWrite additionally rejects writes on a read-only attach.
// The caller must hold b.mu.
func (b *Backend) checkWrite() error {
	if err := b.checkRead(); err != nil {
		return err
	}
	if b.config.ReadOnly {
		return types.ErrReadOnly
	}
	return nil
}

// inTx runs fn inside a transaction and commits when fn returns nil.
// The caller must hold the write lock.
func (b *Backend) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// stamp returns the next updated_at for a row whose current value is prev.
func (b *Backend) stamp(prev time.Time) time.Time {
	base := types.Base{UpdatedAt: prev}
	base.Touch(b.now())
	return base.UpdatedAt
}

// notFound converts sql.ErrNoRows into types.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	return err
}
