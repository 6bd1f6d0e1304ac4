package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize courtnote storage",
		Long: "Create the configuration and data directories, write a default config.yaml,\n" +
			"mint an anonymous user id and seed the store with the free note and a\n" +
			"fallback group. Running init again changes nothing.",
		Args: cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"config":  a.v.ConfigFileUsed(),
					"store":   a.storeDir,
					"user_id": a.identity.UserID(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Courtnote initialized successfully")
			fmt.Fprintf(out, "config: %s\nstore:  %s\nuser:   %s\n", a.v.ConfigFileUsed(), a.storeDir, a.identity.UserID())
			return nil
		}),
	}
}
