package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/courtnote/internal/paths"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "COURTNOTE"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFormat  = "log_format"
	cfgKeyRemote     = "remote"
	cfgKeyRemoteKind = "remote.kind"

	defaultBackend   = types.BackendSQLite
	defaultLogLevel  = "warn"
	defaultLogFormat = "console"
)

// Remote kinds selectable by remote.kind or --remote.
const (
	remoteNone    = "none"
	remoteMemory  = "memory"
	remoteSurreal = "surreal"
)

// remoteKeys are the remote.* settings. Each gets a default so AutomaticEnv
// resolves COURTNOTE_REMOTE_* for them.
var remoteKeys = []string{"kind", "url", "namespace", "database", "username", "password"}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Courtnote configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Logging: debug, info, warn, error; console or json
log_level: warn
log_format: console

# Remote replica used by "courtnote sync": surreal, memory or none
remote:
  kind: none
  url: ws://localhost:8000/rpc
  namespace: courtnote
  database: courtnote
  # username:
  # password:
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. Environment variables
// prefixed COURTNOTE_ override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	for _, k := range remoteKeys {
		v.SetDefault(cfgKeyRemote+"."+k, "")
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// remoteKind returns the effective remote kind: flag, then config, then none.
func remoteKind(flag string, v *viper.Viper) string {
	kind := flag
	if kind == "" {
		kind = v.GetString(cfgKeyRemoteKind)
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return remoteNone
	}
	return kind
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the merged configuration (file, environment and defaults) as YAML.\nThe remote password is redacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return sysErr("resolve config dir: %w", err)
			}
			v, err := loadConfig(configDir)
			if err != nil {
				return sysErr("%w", err)
			}

			settings := v.AllSettings()
			if r, ok := settings[cfgKeyRemote].(map[string]any); ok {
				if p, _ := r["password"].(string); p != "" {
					r["password"] = "********"
				}
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), settings)
			}
			out, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", v.ConfigFileUsed(), out)
			return nil
		},
	}
}
