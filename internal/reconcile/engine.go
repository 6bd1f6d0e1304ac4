// Package reconcile converges the local store with the remote replica.
//
// A pass runs one diff and merge per record kind, all kinds concurrently.
// Within a kind the steps are strictly ordered: fetch the remote documents,
// snapshot the local records, push what only the device has, pull what only
// the replica has, and settle records present on both sides by
// last-writer-wins on UpdatedAt. The first remote failure cancels the other
// kinds and fails the pass; kinds that already finished keep their effects.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/courtnote/internal/remote"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// LocalStore is the part of the local store a pass needs. Snapshot must
// include tombstones so deletions reach the replica instead of being
// resurrected by the next pull.
type LocalStore interface {
	Snapshot(kind types.Kind) ([]types.Entity, error)
	Upsert(e types.Entity) error
}

// Engine runs reconciliation passes.
type Engine struct {
	local  LocalStore
	remote remote.Client
	logger *zap.Logger
	kinds  []types.Kind
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithKinds restricts passes to kinds.
func WithKinds(kinds ...types.Kind) Option {
	return func(e *Engine) { e.kinds = kinds }
}

// New returns an Engine reconciling local with rc.
func New(local LocalStore, rc remote.Client, opts ...Option) *Engine {
	e := &Engine{
		local:  local,
		remote: rc,
		logger: zap.NewNop(),
		kinds:  types.Kinds,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one pass over every kind. Cancelling ctx after Run starts does
// not abort the pass; only a remote failure does. Values carried by ctx are
// kept. On failure the returned error is the first one any kind hit.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	results := make([]KindReport, len(e.kinds))

	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	for i, kind := range e.kinds {
		g.Go(func() error {
			r, err := e.reconcileKind(gctx, kind)
			if err != nil {
				return fmt.Errorf("reconciling %s: %w", kind, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("reconciliation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return Report{}, err
	}

	report := Report{Kinds: results, Elapsed: time.Since(start)}
	e.logger.Info("reconciliation finished",
		zap.Int("pushed", report.Total().Pushed),
		zap.Int("pulled", report.Total().Pulled),
		zap.Int("patched", report.Total().Patched),
		zap.Int("applied", report.Total().Applied),
		zap.Int("local_failures", report.Total().LocalFailures),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

// reconcileKind runs the fetch, diff and apply steps for one kind.
func (e *Engine) reconcileKind(ctx context.Context, kind types.Kind) (KindReport, error) {
	r := KindReport{Kind: kind}
	log := e.logger.With(zap.String("kind", string(kind)))

	remoteSet, err := e.remote.FetchAll(ctx, kind)
	if err != nil {
		return r, err
	}
	localSet, err := e.local.Snapshot(kind)
	if err != nil {
		return r, fmt.Errorf("reading local snapshot: %w", err)
	}

	remoteByID := index(remoteSet)
	localByID := index(localSet)

	// Push records only the device has.
	for _, l := range localSet {
		if _, ok := remoteByID[l.Meta().ID]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return r, err
		}
		if err := e.remote.CreateOrReplace(ctx, l); err != nil {
			return r, err
		}
		r.Pushed++
	}

	// Pull records only the replica has.
	for _, rm := range remoteSet {
		if _, ok := localByID[rm.Meta().ID]; ok {
			continue
		}
		if e.apply(log, rm) {
			r.Pulled++
		} else {
			r.LocalFailures++
		}
	}

	// Settle records present on both sides.
	for _, l := range localSet {
		rm, ok := remoteByID[l.Meta().ID]
		if !ok {
			continue
		}
		lt, rt := l.Meta().UpdatedAt, rm.Meta().UpdatedAt
		switch {
		case lt.After(rt):
			if err := ctx.Err(); err != nil {
				return r, err
			}
			if err := e.patch(ctx, l); err != nil {
				return r, err
			}
			r.Patched++
		case rt.After(lt):
			if e.apply(log, rm) {
				r.Applied++
			} else {
				r.LocalFailures++
			}
		default:
			r.Unchanged++
		}
	}

	log.Debug("kind reconciled",
		zap.Int("remote", len(remoteSet)),
		zap.Int("local", len(localSet)),
		zap.Int("pushed", r.Pushed),
		zap.Int("pulled", r.Pulled),
		zap.Int("patched", r.Patched),
		zap.Int("applied", r.Applied))
	return r, nil
}

// patch sends the whole local record. A document that vanished since the
// fetch is recreated.
func (e *Engine) patch(ctx context.Context, l types.Entity) error {
	err := e.remote.Patch(ctx, l, nil)
	if remote.IsNotFound(err) {
		return e.remote.CreateOrReplace(ctx, l)
	}
	return err
}

// apply stores a remote record locally. Failures are logged and skipped.
func (e *Engine) apply(log *zap.Logger, rm types.Entity) bool {
	if err := e.local.Upsert(rm); err != nil {
		log.Warn("applying remote record failed",
			zap.String("id", rm.Meta().ID),
			zap.Error(err))
		return false
	}
	return true
}

func index(es []types.Entity) map[string]types.Entity {
	m := make(map[string]types.Entity, len(es))
	for _, e := range es {
		m[e.Meta().ID] = e
	}
	return m
}
