package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/store"
	"github.com/spf13/cobra"
)

// snapshotsKept is how many snapshots survive each new one per user.
const snapshotsKept = 5

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start over, or undo the last reset or migration",
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
		out := cmd.OutOrStdout()

		if undo, _ := cmd.Flags().GetBool("undo"); undo {
			if rt.backend.Snapshots == nil {
				return fmt.Errorf("undo needs the sqlite backend")
			}
			snap, err := rt.backend.Snapshots.Latest(ctx, s.UserID)
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("nothing to undo")
			}
			if _, err := rt.progress.Restore(ctx, snap.Data); err != nil {
				return err
			}
			fmt.Fprintf(out, "Restored progress from before the %s on %s.\n",
				snap.Reason, snap.Timestamp.Local().Format("2006-01-02 15:04"))
			return nil
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this clears all eco points, levels and achievements; rerun with --yes")
		}
		if err := rt.snapshot(ctx, cmd.ErrOrStderr(), s.UserID, "reset"); err != nil {
			return err
		}
		if _, err := rt.progress.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Progress reset. Level 1 of every topic is open again.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	resetCmd.Flags().Bool("undo", false, "Restore the most recent snapshot")
}

// snapshot stores the current profile before a destructive change. Backends
// without snapshot support only get a warning.
func (rt *runtime) snapshot(ctx context.Context, warn io.Writer, userID, reason string) error {
	if rt.backend.Snapshots == nil {
		fmt.Fprintf(warn, "warning: the %s backend keeps no snapshots; this %s cannot be undone\n", rt.cfg.Backend, reason)
		return nil
	}
	p, err := rt.progress.Profile(ctx)
	if err != nil {
		return err
	}
	snap := &store.Snapshot{UserID: userID, Reason: reason, Data: profile.ToDocument(p)}
	if err := rt.backend.Snapshots.Save(ctx, snap); err != nil {
		return err
	}
	if err := rt.backend.Snapshots.Prune(ctx, userID, snapshotsKept); err != nil {
		rt.log.Warn("prune snapshots", "user_id", userID, "error", err)
	}
	return nil
}
