package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and which ones you have earned",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, _, err := rt.userContext(cmd.Context())
		if err != nil {
			return err
		}
		p, err := rt.progress.Profile(ctx)
		if err != nil {
			return err
		}

		earnedOnly, _ := cmd.Flags().GetBool("earned")
		out := cmd.OutOrStdout()
		earned := make(map[string]string, len(p.Achievements))
		for _, a := range p.Achievements {
			earned[a.ID] = a.EarnedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(out, "%d of %d earned\n\n", len(earned), len(rt.engine.Registry()))
		for _, d := range rt.engine.Registry() {
			when, ok := earned[d.ID]
			if !ok {
				if earnedOnly {
					continue
				}
				when = "locked"
			}
			fmt.Fprintf(out, "%s  %-22s  %-10s  %s\n", d.Icon, d.Name, when, d.Description)
		}
		return nil
	},
}

func init() {
	achievementsCmd.Flags().Bool("earned", false, "Only show earned achievements")
}
