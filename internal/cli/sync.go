package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtnote/internal/notebook"
	"github.com/mesh-intelligence/courtnote/internal/reconcile"
	"github.com/mesh-intelligence/courtnote/internal/remote"
)

func newSyncCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local store with the remote replica",
		Long: `Sync runs one reconciliation pass over every record kind. Records only
one side has are copied to the other; for records both sides have, the copy
with the later update time wins. The remote is chosen by remote.kind in
config.yaml or by --remote.`,
		Args: cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			report, err := a.svc.Sync(cmd.Context())
			if err != nil {
				if errors.Is(err, notebook.ErrSyncDisabled) {
					return fmt.Errorf("%w: set remote.kind in %s or pass --remote", err, a.v.ConfigFileUsed())
				}
				var re *remote.Error
				if errors.As(err, &re) {
					return fmt.Errorf("sync failed (%s): %w", re.Code, err)
				}
				return fmt.Errorf("sync failed: %w", err)
			}
			return printReport(cmd, a.jsonMode, report)
		}),
	}
}

func printReport(cmd *cobra.Command, jsonMode bool, r reconcile.Report) error {
	out := cmd.OutOrStdout()
	if jsonMode {
		return printJSON(out, r)
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "KIND\tPUSHED\tPULLED\tPATCHED\tAPPLIED\tUNCHANGED\tFAILED")
	row := func(k reconcile.KindReport, name string) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			name, k.Pushed, k.Pulled, k.Patched, k.Applied, k.Unchanged, k.LocalFailures)
	}
	for _, k := range r.Kinds {
		row(k, string(k.Kind))
	}
	row(r.Total(), "total")
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Synced in %s\n", r.Elapsed.Round(time.Millisecond))
	return nil
}
