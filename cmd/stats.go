package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/ecoquest/internal/achievements"
	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
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
		st := achievements.StatsFor(p)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n", s.Name, strings.Repeat("─", 40))
		fmt.Fprintf(out, "Eco points:     %d / %d  %s\n", p.EcoPoints, p.MaxPoints, bar(p.EcoPoints, p.MaxPoints, 20))
		fmt.Fprintf(out, "Streak:         %d\n", p.Streak)
		fmt.Fprintf(out, "Lessons:        %d\n", st.TotalLessons)
		fmt.Fprintf(out, "Levels done:    %d\n", st.TotalLevelsCompleted)
		fmt.Fprintf(out, "Gold medals:    %d\n", st.GoldMedalCount)
		fmt.Fprintf(out, "Topics done:    %d / %d\n", st.CompletedTopicsCount, len(catalog.All()))
		fmt.Fprintf(out, "Achievements:   %d / %d\n", len(p.Achievements), len(rt.engine.Registry()))

		if rt.backend.Events == nil {
			return nil
		}
		limit, _ := cmd.Flags().GetInt("recent")
		events, err := rt.backend.Events.RecentLessons(ctx, s.UserID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query lessons: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		fmt.Fprintf(out, "\nRecent lessons\n")
		fmt.Fprintf(out, "%-19s  %-16s  %5s  %-7s  %6s  %s\n", "Time", "Topic", "Level", "Answer", "Points", "Notes")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, e := range events {
			answer := "✗"
			if e.Correct {
				answer = "✓"
			}
			var notes []string
			if e.LevelCompleted {
				notes = append(notes, "level complete ("+e.Medal+")")
			}
			if e.Achievements != "" {
				notes = append(notes, "+"+e.Achievements)
			}
			fmt.Fprintf(out, "%-19s  %-16s  %5d  %-7s  %6d  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.TopicID, 16),
				e.Level,
				answer,
				e.PointsAwarded,
				strings.Join(notes, "; "),
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("recent", 10, "Number of recent lessons to show")
}
