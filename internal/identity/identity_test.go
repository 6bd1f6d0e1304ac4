package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/internal/sqlite"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// configFile returns a viper instance reading an empty config.yaml in a
// temp dir.
func configFile(t *testing.T) (*viper.Viper, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\n"), 0o644))
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	return v, path
}

func reload(t *testing.T, path string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	return v
}

func setupStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestLoad_MintsAndPersistsAnonymousID(t *testing.T) {
	v, path := configFile(t)

	p, err := Load(v, setupStore(t), nil)
	require.NoError(t, err)
	id := p.UserID()
	assert.NotEmpty(t, id)
	assert.False(t, p.Authenticated())

	again, err := Load(reload(t, path), setupStore(t), nil)
	require.NoError(t, err)
	assert.Equal(t, id, again.UserID(), "id survives a restart")
	assert.Equal(t, "sqlite", reload(t, path).GetString("backend"), "other keys are kept")
}

func TestLogin_RewritesRecords(t *testing.T) {
	v, path := configFile(t)
	store := setupStore(t)
	p, err := Load(v, store, nil)
	require.NoError(t, err)
	require.NoError(t, store.Bootstrap(p.UserID()))

	require.NoError(t, p.Login("account-7"))

	assert.Equal(t, "account-7", p.UserID())
	assert.True(t, p.Authenticated())
	assert.Equal(t, "account-7", reload(t, path).GetString(KeyUserID))

	free, err := store.FreeNote()
	require.NoError(t, err)
	assert.Equal(t, "account-7", free.UserID)

	assert.ErrorIs(t, p.Login(""), ErrEmptyAccount)
}

func TestLogout_WipesAndBootstraps(t *testing.T) {
	for _, tc := range []struct {
		name string
		call func(*Provider) error
	}{
		{"logout", (*Provider).Logout},
		{"delete account", (*Provider).DeleteAccount},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, _ := configFile(t)
			store := setupStore(t)
			p, err := Load(v, store, nil)
			require.NoError(t, err)
			require.NoError(t, p.Login("account-7"))
			require.NoError(t, store.Upsert(&types.Group{Base: types.NewBase("account-7", 0, time.Now()), Title: "Serve"}))

			require.NoError(t, tc.call(p))

			assert.NotEqual(t, "account-7", p.UserID())
			assert.False(t, p.Authenticated())
			groups, err := store.List(types.KindGroup)
			require.NoError(t, err)
			require.Len(t, groups, 1, "only the fallback group remains")
			assert.Equal(t, sqlite.FallbackGroupTitle, groups[0].(*types.Group).Title)
			assert.Equal(t, p.UserID(), groups[0].Meta().UserID)
		})
	}
}

type failingStore struct{ err error }

func (s failingStore) RewriteUserID(string) error { return s.err }
func (s failingStore) WipeAll() error              { return s.err }
func (s failingStore) Bootstrap(string) error      { return s.err }

func TestLogin_StoreFailureKeepsIdentity(t *testing.T) {
	v, _ := configFile(t)
	boom := errors.New("disk full")
	p, err := Load(v, failingStore{boom}, nil)
	require.NoError(t, err)
	before := p.UserID()

	assert.ErrorIs(t, p.Login("account-7"), boom)
	assert.Equal(t, before, p.UserID())
	assert.ErrorIs(t, p.Logout(), boom)
	assert.Equal(t, before, p.UserID())
}

func TestLoad_WithoutConfigFile(t *testing.T) {
	p, err := Load(viper.New(), failingStore{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, p.UserID())
}

func TestPersist_WritesOnlyFileKeys(t *testing.T) {
	v, path := configFile(t)
	v.SetDefault("log_level", "warn")
	v.Set("remote.password", "from-env")

	_, err := Load(v, setupStore(t), nil)
	require.NoError(t, err)

	written := reload(t, path)
	assert.NotEmpty(t, written.GetString(KeyUserID))
	assert.False(t, written.IsSet("log_level"))
	assert.False(t, written.IsSet("remote.password"))
}
