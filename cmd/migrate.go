package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <topic-id>",
	Short: "Move progress from the old single-track level model into a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, s, err := rt.userContext(cmd.Context())
		if err != nil {
			return err
		}
		p, err := rt.progress.Profile(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(p.LegacyLevels) == 0 {
			fmt.Fprintln(out, "No legacy progress to migrate.")
			return nil
		}

		if err := rt.snapshot(ctx, cmd.ErrOrStderr(), s.UserID, "migration"); err != nil {
			return err
		}
		n, err := rt.progress.MigrateLegacy(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Migrated %d levels into %s.\n", n, args[0])
		return nil
	},
}
