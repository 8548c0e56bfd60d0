package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecoquest",
	Short: "Climate lessons with streaks, medals and achievements",
	Long: "EcoQuest: bite-sized climate and sustainability lessons in the terminal.\n" +
		"Each topic has ten levels of five lessons; finish a level to earn a medal and unlock the next.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default $XDG_CONFIG_HOME/ecoquest/ecoquest.yaml)")
	pf.String("db", "", "Path to the SQLite database file (overrides ECOQUEST_DB)")
	pf.String("backend", "", "Storage backend: sqlite, redis or memory")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
