package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/ecoquest/internal/app"
	"github.com/abhisek/ecoquest/internal/lessons"
	"github.com/abhisek/ecoquest/internal/llm"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the lesson player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().Bool("offline", false, "Use built-in lesson material instead of an LLM")
}

// runPlay launches the TUI, signed in when a valid session is saved.
func runPlay(cmd *cobra.Command) error {
	rt, err := setup(cmd, logToFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	offline, _ := cmd.Flags().GetBool("offline")
	env := &screen.Env{
		Ctx:          cmd.Context(),
		Accounts:     rt.accounts,
		Progress:     rt.progress,
		Achievements: rt.engine,
		Lessons:      rt.lessonSource(cmd, offline),
		SaveSession:  rt.saveSession,
		Log:          rt.log,
	}

	var opts app.Options
	ctx, s, err := rt.userContext(cmd.Context())
	switch {
	case errors.Is(err, errNotSignedIn):
	case err != nil:
		return err
	default:
		login, err := rt.progress.Login(ctx, profile.DateOf(time.Now()))
		if errors.Is(err, profile.ErrProfileNotFound) {
			// The account lives in another backend; sign in again.
			_ = rt.clearSession()
			break
		}
		if err != nil {
			return err
		}
		env.Ctx = ctx
		opts = app.Options{Name: s.Name, Login: login}
	}

	return app.Run(env, opts)
}

// lessonSource builds the lesson generator from the configured LLM
// provider, falling back to built-in material.
func (rt *runtime) lessonSource(cmd *cobra.Command, offline bool) lessons.LessonSource {
	var provider llm.Provider
	if !offline {
		if cfg, ok := llm.FromSettings(rt.cfg.LLM); ok {
			p, err := llm.NewProvider(cmd.Context(), cfg, rt.backend.Events, rt.log)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not available:", err)
			} else {
				provider = p
			}
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "No LLM API key configured; using built-in lessons.")
		}
	}
	if provider == nil {
		provider = llm.NewOfflineProvider()
	}
	return lessons.NewGenerator(provider, lessons.DefaultConfig(), rt.log)
}
