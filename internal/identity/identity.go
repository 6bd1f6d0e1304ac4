// Package identity owns the user id every record is stamped with. The id is
// persisted in the viper config file: a random anonymous id until the user
// logs in, then the account id.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config keys.
const (
	KeyUserID        = "user_id"
	KeyAuthenticated = "authenticated"
)

// ErrEmptyAccount is returned by Login for an empty account id.
var ErrEmptyAccount = errors.New("account id must not be empty")

// Store is the part of the local store identity changes touch.
type Store interface {
	RewriteUserID(newID string) error
	WipeAll() error
	Bootstrap(userID string) error
}

// Provider resolves and changes the current user id. It satisfies
// remote.UserSource.
type Provider struct {
	mu     sync.RWMutex
	v      *viper.Viper
	store  Store
	logger *zap.Logger
}

// Load returns a Provider backed by v. When v holds no user id an anonymous
// one is minted and written to the config file.
func Load(v *viper.Viper, store Store, logger *zap.Logger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{v: v, store: store, logger: logger}
	if v.GetString(KeyUserID) == "" {
		if err := p.persist(newAnonymousID(), false); err != nil {
			return nil, err
		}
		logger.Info("minted anonymous user id", zap.String("user_id", p.UserID()))
	}
	return p, nil
}

// UserID returns the current user id.
func (p *Provider) UserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.v.GetString(KeyUserID)
}

// Authenticated reports whether the current id is an account id.
func (p *Provider) Authenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.v.GetBool(KeyAuthenticated)
}

// Login adopts accountID: every stored record, tombstones included, is
// rewritten to the new id before it is persisted.
func (p *Provider) Login(accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return ErrEmptyAccount
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.RewriteUserID(accountID); err != nil {
		return fmt.Errorf("rewriting user id: %w", err)
	}
	if err := p.persistLocked(accountID, true); err != nil {
		return err
	}
	p.logger.Info("logged in", zap.String("user_id", accountID))
	return nil
}

// Logout wipes the local store, mints a new anonymous id and bootstraps the
// store for it.
func (p *Provider) Logout() error {
	return p.reset("logged out")
}

// DeleteAccount forgets the account the same way Logout does. Removing the
// account's remote documents is the account service's job.
func (p *Provider) DeleteAccount() error {
	return p.reset("account deleted")
}

func (p *Provider) reset(event string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.WipeAll(); err != nil {
		return fmt.Errorf("wiping store: %w", err)
	}
	id := newAnonymousID()
	if err := p.persistLocked(id, false); err != nil {
		return err
	}
	if err := p.store.Bootstrap(id); err != nil {
		return fmt.Errorf("bootstrapping store: %w", err)
	}
	p.logger.Info(event, zap.String("user_id", id))
	return nil
}

func (p *Provider) persist(id string, authenticated bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.persistLocked(id, authenticated)
}

// persistLocked sets the identity keys and writes them to the config file
// when one is in use. The file is rewritten from its own contents so
// defaults and environment overrides held by p.v never land in it. The
// caller must hold p.mu.
func (p *Provider) persistLocked(id string, authenticated bool) error {
	p.v.Set(KeyUserID, id)
	p.v.Set(KeyAuthenticated, authenticated)
	path := p.v.ConfigFileUsed()
	if path == "" {
		return nil
	}

	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config for identity: %w", err)
	}
	file.Set(KeyUserID, id)
	file.Set(KeyAuthenticated, authenticated)
	if err := file.WriteConfig(); err != nil {
		return fmt.Errorf("writing identity to config: %w", err)
	}
	return nil
}

func newAnonymousID() string {
	return uuid.NewString()
}
