package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a learner account",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		name, _ := cmd.Flags().GetString("name")
		email, password, err := credentials(cmd, in, out)
		if err != nil {
			return err
		}
		if name, err = prompt(in, out, "Name", name); err != nil {
			return err
		}

		s, err := rt.accounts.Signup(cmd.Context(), email, password, name)
		if err != nil {
			return err
		}
		if err := rt.saveSession(s); err != nil {
			return err
		}
		fmt.Fprintf(out, "Welcome to EcoQuest, %s! Level 1 of every topic is open.\n", s.Name)
		fmt.Fprintln(out, "Run `ecoquest play` to start your first lesson.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and record today's visit",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		email, password, err := credentials(cmd, in, out)
		if err != nil {
			return err
		}

		s, err := rt.accounts.Authenticate(cmd.Context(), email, password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fmt.Errorf("that email and password do not match")
		}
		if err != nil {
			return err
		}
		if err := rt.saveSession(s); err != nil {
			return err
		}

		ctx := auth.WithUser(cmd.Context(), s.UserID)
		login, err := rt.progress.Login(ctx, profile.DateOf(time.Now()))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed in as %s.\n", s.Name)
		printLogin(out, login)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.clearSession(); err != nil {
			return fmt.Errorf("remove session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", "Account password (or set ECOQUEST_PASSWORD)")
	}
	signupCmd.Flags().String("name", "", "Display name")
}

// credentials collects email and password from flags, the environment or
// standard input, in that order.
func credentials(cmd *cobra.Command, in *bufio.Reader, out io.Writer) (string, string, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("ECOQUEST_PASSWORD")
	}
	email, err := prompt(in, out, "Email", email)
	if err != nil {
		return "", "", err
	}
	password, err = prompt(in, out, "Password", password)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func printLogin(out io.Writer, login *completion.LoginOutcome) {
	day := "days"
	if login.Streak == 1 {
		day = "day"
	}
	fmt.Fprintf(out, "Streak: %d %s\n", login.Streak, day)
	for _, a := range login.NewAchievements {
		fmt.Fprintf(out, "Achievement unlocked: %s %s\n", a.Icon, a.Name)
	}
}
