// Package notebook is the API the app's screens call. Reads and writes go to
// the local store synchronously; a failed local call is logged and reported
// as an empty, nil or false result instead of an error. Sync runs one
// reconciliation pass and is the only call that returns an error.
package notebook

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/courtnote/internal/reconcile"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// Store is the local store surface the service uses.
type Store interface {
	Upsert(e types.Entity) error
	Get(kind types.Kind, id string) (types.Entity, error)
	List(kind types.Kind) ([]types.Entity, error)
	Count(kind types.Kind) (int, error)
	CascadingSoftDelete(kind types.Kind, id string) error
	CompletedTasks(groupID string) ([]*types.Task, error)
	TasksByGroup(groupID string) ([]*types.Task, error)
	MeasuresByTask(taskID string) ([]*types.Measures, error)
	FreeNote() (*types.Note, error)
	SearchNotes(text string) ([]*types.Note, error)
	NotesOnDay(day time.Time) ([]*types.Note, error)
	MemosByMeasures(measuresID string) ([]*types.Memo, error)
	MemosByNote(noteID string) ([]*types.Memo, error)
	GroupColor(memoID string) (int, error)
	SaveTarget(t *types.Target) error
	TargetsForYear(year int) ([]*types.Target, error)
	Bootstrap(userID string) error
}

// Syncer runs a reconciliation pass.
type Syncer interface {
	Run(ctx context.Context) (reconcile.Report, error)
}

// UserSource yields the id new records are stamped with.
type UserSource interface {
	UserID() string
}

// Service is the notebook API.
type Service struct {
	store  Store
	users  UserSource
	syncer Syncer
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger failures are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces the clock used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSyncer sets the reconciliation engine. Without one Sync fails with
// ErrSyncDisabled.
func WithSyncer(sy Syncer) Option {
	return func(s *Service) { s.syncer = sy }
}

// New returns a Service over store for the user users reports.
func New(store Store, users UserSource, opts ...Option) *Service {
	s := &Service{
		store:  store,
		users:  users,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open bootstraps the store for the current user. It reports whether the
// store is ready.
func (s *Service) Open() bool {
	return s.ok("bootstrap", s.store.Bootstrap(s.users.UserID()))
}

// Sync runs one reconciliation pass and waits for it.
func (s *Service) Sync(ctx context.Context) (reconcile.Report, error) {
	if s.syncer == nil {
		return reconcile.Report{}, ErrSyncDisabled
	}
	return s.syncer.Run(ctx)
}

// SyncAsync starts a pass in the background. The channel yields the pass's
// error, nil on success, and is then closed.
func (s *Service) SyncAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := s.Sync(ctx)
		done <- err
	}()
	return done
}

// Get returns the live record or nil.
func (s *Service) Get(kind types.Kind, id string) types.Entity {
	e, err := s.store.Get(kind, id)
	return swallow(s, "get", e, err, zap.String("kind", string(kind)), zap.String("id", id))
}

// List returns the live records of kind in display order.
func (s *Service) List(kind types.Kind) []types.Entity {
	es, err := s.store.List(kind)
	return swallow(s, "list", es, err, zap.String("kind", string(kind)))
}

// Count returns the number of live records of kind, 0 on failure.
func (s *Service) Count(kind types.Kind) int {
	n, err := s.store.Count(kind)
	return swallow(s, "count", n, err, zap.String("kind", string(kind)))
}

// Delete tombstones the record and everything it owns. The free note is
// never deleted.
func (s *Service) Delete(kind types.Kind, id string) bool {
	return s.ok("delete", s.store.CascadingSoftDelete(kind, id), zap.String("kind", string(kind)), zap.String("id", id))
}

// Save stamps UpdatedAt on e and stores it.
func (s *Service) Save(e types.Entity) bool {
	e.Meta().Touch(s.now())
	return s.ok("save", s.store.Upsert(e), zap.String("kind", string(e.Kind())), zap.String("id", e.Meta().ID))
}

// create fills in metadata for a new record appended after the live records
// of its kind, then stores it. It returns false when the store refused.
func (s *Service) create(e types.Entity) bool {
	order := s.Count(e.Kind())
	*e.Meta() = types.NewBase(s.users.UserID(), order, s.now())
	return s.ok("create", s.store.Upsert(e), zap.String("kind", string(e.Kind())))
}

// ok logs err and reports whether it was nil.
func (s *Service) ok(op string, err error, fields ...zap.Field) bool {
	if err == nil {
		return true
	}
	s.logger.Warn("local store "+op+" failed", append(fields, zap.Error(err))...)
	return false
}

// swallow returns v, or the zero value after logging err.
func swallow[T any](s *Service, op string, v T, err error, fields ...zap.Field) T {
	if !s.ok(op, err, fields...) {
		var zero T
		return zero
	}
	return v
}
