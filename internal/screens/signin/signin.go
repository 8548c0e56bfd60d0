// Package signin asks for the learner's email and password when no saved
// session is available.
package signin

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/ui/components"
	"github.com/abhisek/ecoquest/internal/ui/layout"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

type signedInMsg struct {
	Session *account.Session
	Login   *completion.LoginOutcome
	Err     error
}

// SignInScreen collects credentials and signs the learner in.
type SignInScreen struct {
	env    *screen.Env
	inputs []components.TextInput
	focus  int
	busy   bool
	errMsg string

	// next builds the screen shown after a successful sign-in.
	next func(name string, login *completion.LoginOutcome) screen.Screen
	now  func() time.Time
}

var _ screen.Screen = (*SignInScreen)(nil)
var _ screen.KeyHintProvider = (*SignInScreen)(nil)

// New creates a SignInScreen. next receives the signed-in learner's name and
// login result.
func New(env *screen.Env, next func(name string, login *completion.LoginOutcome) screen.Screen) *SignInScreen {
	return &SignInScreen{
		env: env,
		inputs: []components.TextInput{
			components.NewTextInput("Email", "you@example.com", false, 254),
			components.NewTextInput("Password", "", true, 128),
		},
		next: next,
		now:  time.Now,
	}
}

func (s *SignInScreen) Init() tea.Cmd {
	return s.inputs[0].Focus()
}

func (s *SignInScreen) Title() string {
	return "Sign in"
}

func (s *SignInScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SignInScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		return s.handleSignedIn(msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % len(s.inputs))
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + len(s.inputs) - 1) % len(s.inputs))
		case "enter":
			if s.focus < len(s.inputs)-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *SignInScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[i].Focus()
}

func (s *SignInScreen) submit() tea.Cmd {
	email, password := s.inputs[0].Value(), s.inputs[1].Model.Value()
	if email == "" || password == "" {
		s.errMsg = "Enter your email and password."
		return nil
	}
	s.busy = true
	s.errMsg = ""

	accounts, progress := s.env.Accounts, s.env.Progress
	today := profile.DateOf(s.now())
	return func() tea.Msg {
		ctx := context.Background()
		sess, err := accounts.Authenticate(ctx, email, password)
		if err != nil {
			return signedInMsg{Err: err}
		}
		login, err := progress.Login(auth.WithUser(ctx, sess.UserID), today)
		return signedInMsg{Session: sess, Login: login, Err: err}
	}
}

func (s *SignInScreen) handleSignedIn(msg signedInMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Session == nil {
		if errors.Is(msg.Err, auth.ErrInvalidCredentials) {
			s.errMsg = "That email and password do not match."
		} else {
			s.errMsg = "Sign in failed: " + msg.Err.Error()
		}
		return s, s.setFocus(1)
	}

	s.env.Ctx = auth.WithUser(context.Background(), msg.Session.UserID)
	if msg.Err != nil {
		// The learner is signed in; only the streak update failed.
		s.env.Log.Warn("login not recorded", "user_id", msg.Session.UserID, "error", msg.Err)
	}
	if s.env.SaveSession != nil {
		if err := s.env.SaveSession(msg.Session); err != nil {
			s.env.Log.Warn("failed to save session", "error", err)
		}
	}

	next := s.next(msg.Session.Name, msg.Login)
	replace := func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	if msg.Login == nil {
		return s, replace
	}
	p := msg.Login.Profile
	return s, tea.Batch(replace, func() tea.Msg { return screen.ProfileMsg{Profile: p} })
}

func (s *SignInScreen) View(width, height int) string {
	var parts []string
	parts = append(parts, theme.Title.Render("Sign in to EcoQuest"), "")
	for _, in := range s.inputs {
		parts = append(parts, in.View(), "")
	}
	switch {
	case s.busy:
		parts = append(parts, theme.Hint.Render("Signing in..."))
	case s.errMsg != "":
		parts = append(parts, theme.Incorrect.Render(s.errMsg))
	default:
		parts = append(parts, theme.Hint.Render("No account yet? Run: ecoquest signup"))
	}

	card := theme.Card.Width(min(width-4, 56)).Render(strings.Join(parts, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
