package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/courtnote/internal/identity"
	"github.com/mesh-intelligence/courtnote/internal/logging"
	"github.com/mesh-intelligence/courtnote/internal/notebook"
	"github.com/mesh-intelligence/courtnote/internal/paths"
	"github.com/mesh-intelligence/courtnote/internal/reconcile"
	"github.com/mesh-intelligence/courtnote/internal/remote"
	"github.com/mesh-intelligence/courtnote/internal/sqlite"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// app is everything a command needs, wired from configuration.
type app struct {
	v        *viper.Viper
	logger   *zap.Logger
	store    *sqlite.Backend
	identity *identity.Provider
	svc      *notebook.Service
	remote   string
	jsonMode bool
	storeDir string
}

// openApp resolves directories, loads config, opens the store and builds
// the notebook service. A read-only app skips bootstrap.
func openApp(flags *rootFlags, readOnly bool) (*app, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, sysErr("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, sysErr("%w", err)
	}

	level := flags.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	logger, err := logging.New(logging.Options{Level: level, Format: v.GetString(cfgKeyLogFormat)})
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, sysErr("resolve data dir: %w", err)
	}
	storeDir, err := paths.ResolveStoreDir(dataDir)
	if err != nil {
		return nil, sysErr("resolve store dir: %w", err)
	}

	store := sqlite.NewBackend()
	if err := store.Attach(types.Config{
		Backend:  v.GetString(cfgKeyBackend),
		DataDir:  storeDir,
		ReadOnly: readOnly,
	}); err != nil {
		return nil, sysErr("attach store: %w", err)
	}

	ident, err := identity.Load(v, store, logger.Named("identity"))
	if err != nil {
		_ = store.Detach()
		return nil, sysErr("load identity: %w", err)
	}

	a := &app{
		v:        v,
		logger:   logger,
		store:    store,
		identity: ident,
		remote:   remoteKind(flags.remote, v),
		jsonMode: flags.jsonMode,
		storeDir: storeDir,
	}

	opts := []notebook.Option{notebook.WithLogger(logger.Named("notebook"))}
	if a.remote != remoteNone {
		opts = append(opts, notebook.WithSyncer(remoteSyncer{a: a}))
	}
	a.svc = notebook.New(store, ident, opts...)

	if !readOnly && !a.svc.Open() {
		_ = a.close()
		return nil, sysErr("bootstrap store in %s failed", storeDir)
	}
	return a, nil
}

// close detaches the store and flushes the logger.
func (a *app) close() error {
	_ = a.logger.Sync()
	if err := a.store.Detach(); err != nil {
		return sysErr("detach store: %w", err)
	}
	return nil
}

// withApp opens the app around fn.
func withApp(flags *rootFlags, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return withAppMode(flags, false, fn)
}

func withAppMode(flags *rootFlags, readOnly bool, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(flags, readOnly)
		if err != nil {
			return err
		}
		runErr := fn(cmd, args, a)
		if err := a.close(); err != nil && runErr == nil {
			return err
		}
		return runErr
	}
}

// dialRemote connects the configured remote store.
func (a *app) dialRemote(ctx context.Context) (remote.Client, func(), error) {
	switch a.remote {
	case remoteMemory:
		return remote.NewMemoryClient(a.identity), func() {}, nil
	case remoteSurreal:
		cfg := remote.SurrealConfig{
			URL:       a.v.GetString(cfgKeyRemote + ".url"),
			Namespace: a.v.GetString(cfgKeyRemote + ".namespace"),
			Database:  a.v.GetString(cfgKeyRemote + ".database"),
			Username:  a.v.GetString(cfgKeyRemote + ".username"),
			Password:  a.v.GetString(cfgKeyRemote + ".password"),
		}
		c, err := remote.DialSurreal(ctx, cfg, a.identity)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {
			if err := c.Close(context.WithoutCancel(ctx)); err != nil {
				a.logger.Warn("closing remote connection", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown remote %q (want surreal, memory or none)", types.ErrInvalidData, a.remote)
	}
}

// remoteSyncer dials the remote for each pass so commands that never sync
// never open a connection.
type remoteSyncer struct {
	a *app
}

// Run implements notebook.Syncer.
func (s remoteSyncer) Run(ctx context.Context) (reconcile.Report, error) {
	rc, done, err := s.a.dialRemote(ctx)
	if err != nil {
		return reconcile.Report{}, err
	}
	defer done()
	engine := reconcile.New(s.a.store, rc, reconcile.WithLogger(s.a.logger.Named("reconcile")))
	return engine.Run(ctx)
}
