package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func newLoginCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login <account-id>",
		Short: "Adopt an account id and claim every local record for it",
		Long: `Login switches the current user to the given account id. Every stored
record, deleted or not, is rewritten to the new owner in one transaction, so
notes taken before signing in are kept and synced under the account.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.identity.Login(args[0]); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", a.identity.UserID())
			return nil
		}),
	}
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local store",
		Long: `Logout wipes every local record, mints a new anonymous user id and seeds
the store again. Records already synced stay in the remote replica.`,
		Args: cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.identity.Logout(); err != nil {
				return sysErr("logout: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out; anonymous user %s\n", a.identity.UserID())
			return nil
		}),
	}
}

func newDeleteAccountCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account's local data and start over anonymously",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if !yes {
				return fmt.Errorf("%w: delete-account removes every local record; pass --yes to confirm", types.ErrInvalidData)
			}
			if err := a.identity.DeleteAccount(); err != nil {
				return sysErr("delete account: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account data deleted; anonymous user %s\n", a.identity.UserID())
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
