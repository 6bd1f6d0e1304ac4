package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every record, tombstones included, as JSONL",
		Long:  "Export writes one <kind>.jsonl file per record kind into dir. Files are replaced atomically.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.store.ExportJSONL(args[0]); err != nil {
				return sysErr("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		}),
	}
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load records from JSONL files written by export",
		Long: `Import upserts every valid record found in dir's <kind>.jsonl files.
Missing files are skipped; malformed or invalid lines are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			n, err := a.store.ImportJSONL(args[0])
			if err != nil {
				return sysErr("import: %w", err)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int{"imported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s\n", n, args[0])
			return nil
		}),
	}
}
