package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/lessons"
	"github.com/abhisek/ecoquest/internal/llm"
	"github.com/abhisek/ecoquest/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect lesson generation",
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.backend.Events == nil {
			return fmt.Errorf("the %s backend does not record LLM requests", rt.cfg.Backend)
		}

		var opts store.QueryOpts
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
			opts.From = time.Now().Add(-since)
		}
		usage, err := rt.backend.Events.LLMUsage(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-11s  %-30s  %6s  %6s  %10s  %10s  %7s  %9s\n",
			"Provider", "Model", "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 104))

		var totalCost float64
		var totalCalls, totalIn, totalOut int
		var unknownModels []string
		for _, u := range usage {
			cost := "?"
			if c, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
				totalCost += c
				cost = formatCost(c)
			} else {
				unknownModels = append(unknownModels, u.Model)
			}
			fmt.Fprintf(out, "%-11s  %-30s  %6d  %6d  %10d  %10d  %7d  %9s\n",
				u.Provider, truncate(u.Model, 30), u.Requests, u.Failures,
				u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
			totalCalls += u.Requests
			totalIn += u.InputTokens
			totalOut += u.OutputTokens
		}

		fmt.Fprintln(out, strings.Repeat("─", 104))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-43s  %6d  %6s  %10d  %10d  %7s  %9s\n",
			label, totalCalls, "", totalIn, totalOut, "", formatCost(totalCost))
		if len(unknownModels) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check [topic-id] [level]",
	Short: "Generate one lesson to verify the configured provider",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()

		topicID, level := catalog.IDs()[0], 1
		if len(args) > 0 {
			topicID = args[0]
		}
		if len(args) > 1 {
			if level, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid level %q", args[1])
			}
		}

		cfg, ok := llm.FromSettings(rt.cfg.LLM)
		if !ok {
			return fmt.Errorf("no LLM provider configured; set llm.provider or an API key variable")
		}
		provider, err := llm.NewProvider(cmd.Context(), cfg, rt.backend.Events, rt.log)
		if err != nil {
			return err
		}
		gen := lessons.NewGenerator(provider, lessons.DefaultConfig(), rt.log)

		start := time.Now()
		lesson, err := gen.Generate(cmd.Context(), topicID, level)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s) answered in %s\n\n", provider.Name(), provider.ModelID(), time.Since(start).Round(time.Millisecond))
		fmt.Fprintln(out, lesson.Paragraph)
		if lesson.Quiz == nil {
			fmt.Fprintln(out, "\n(no quiz generated)")
			return nil
		}
		fmt.Fprintf(out, "\n%s\n", lesson.Quiz.Question)
		for i, opt := range lesson.Quiz.Options {
			mark := " "
			if lesson.Quiz.IsCorrect(i) {
				mark = "*"
			}
			fmt.Fprintf(out, " %s %c) %s\n", mark, 'A'+i, opt)
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmUsageCmd.Flags().Duration("since", 0, "Only count requests newer than this (e.g. 24h)")

	llmCmd.AddCommand(llmUsageCmd)
	llmCmd.AddCommand(llmCheckCmd)
}
