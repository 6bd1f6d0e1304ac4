package types

import "errors"

// Config holds backend selection and parameters for opening the local store.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	ReadOnly bool   `json:"read_only" yaml:"read_only"` // Companion readers open the file without write access.
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DatabaseFile is the store file name inside DataDir.
const DatabaseFile = "courtnote.db"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
