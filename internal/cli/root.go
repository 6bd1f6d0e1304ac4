// Package cli implements the courtnote command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtnote/internal/identity"
	"github.com/mesh-intelligence/courtnote/internal/notebook"
	"github.com/mesh-intelligence/courtnote/internal/remote"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	remote    string
	logLevel  string
}

// NewRootCmd creates the top-level "courtnote" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "courtnote",
		Short: "A training notebook with cloud sync",
		Long: "Courtnote keeps groups of tasks, their measures, practice and tournament\n" +
			"notes, memos and targets in a local store, and reconciles them with a\n" +
			"remote replica on demand.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&flags.remote, "remote", "", "remote store: surreal, memory or none (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(flags),
		newConfigCmd(flags),
		newAddCmd(flags),
		newListCmd(flags),
		newGetCmd(flags),
		newDeleteCmd(flags),
		newCompleteCmd(flags),
		newFreeCmd(flags),
		newEditNoteCmd(flags),
		newSearchCmd(flags),
		newDayCmd(flags),
		newTargetCmd(flags),
		newSyncCmd(flags),
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newDeleteAccountCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
		newSummaryCmd(flags),
	)

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// sysError marks failures of the environment rather than of the input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func sysErr(format string, args ...any) error {
	return &sysError{err: fmt.Errorf(format, args...)}
}

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	var (
		se *sysError
		re *remote.Error
	)
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrUnknownKind),
		errors.Is(err, types.ErrFreeNoteProtected),
		errors.Is(err, identity.ErrEmptyAccount),
		errors.Is(err, notebook.ErrSyncDisabled):
		return exitUserError
	case errors.As(err, &se), errors.As(err, &re):
		return exitSysError
	default:
		return exitUserError
	}
}
