package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/progress"
	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [topic-id]",
	Short: "List topics, or the levels of one topic",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()

		// Progress is shown when signed in; the catalog alone otherwise.
		var p *profile.Profile
		ctx, _, err := rt.userContext(cmd.Context())
		switch {
		case errors.Is(err, errNotSignedIn):
		case err != nil:
			return err
		default:
			if p, err = rt.progress.Profile(ctx); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			printTopics(out, p)
			return nil
		}
		topic, ok := catalog.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%w %q (try one of: %s)", profile.ErrUnknownTopic, args[0], strings.Join(catalog.IDs(), ", "))
		}
		printLevels(out, topic, p)
		return nil
	},
}

func printTopics(out io.Writer, p *profile.Profile) {
	fmt.Fprintf(out, "%-16s  %-32s  %s\n", "ID", "Topic", "Progress")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	for _, t := range catalog.All() {
		line := "-"
		if p != nil {
			st := progress.TopicStats(p, t.ID)
			line = fmt.Sprintf("%s %3.0f%%  %d/%d lessons, %d levels",
				bar(st.Completed, st.Total, 10), st.Percentage, st.Completed, st.Total, st.LevelsCompleted)
		}
		fmt.Fprintf(out, "%-16s  %-32s  %s\n", t.ID, truncate(t.Title, 32), line)
	}
}

func printLevels(out io.Writer, topic catalog.Topic, p *profile.Profile) {
	fmt.Fprintf(out, "%s\n%s\n\n", topic.Title, topic.Description)
	if p == nil {
		for _, lvl := range topic.Levels {
			fmt.Fprintf(out, "%2d  %-36s  %s\n", lvl.Number, lvl.Title, lvl.Difficulty.DisplayName())
		}
		return
	}

	fmt.Fprintf(out, "%2s  %-36s  %-12s  %-10s  %7s  %s\n", "#", "Level", "Difficulty", "Status", "Correct", "Medal")
	fmt.Fprintln(out, strings.Repeat("─", 86))
	for _, row := range progress.Overview(p, topic) {
		fmt.Fprintf(out, "%2d  %-36s  %-12s  %-10s  %3d/%-3d  %s %s\n",
			row.Level.Number,
			truncate(row.Level.Title, 36),
			row.Level.Difficulty.DisplayName(),
			row.Status,
			row.CorrectAnswers, row.LessonsCompleted,
			row.Medal.Icon(), medalName(row),
		)
	}
}

func medalName(row progress.LevelRow) string {
	if row.Status != progress.Completed {
		return ""
	}
	return row.Medal.DisplayName()
}

func bar(done, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := min(width*done/total, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// truncate shortens s to at most n runes, ending with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
