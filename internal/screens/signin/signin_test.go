package signin

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/screen/screentest"
)

type stubScreen struct{ name string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.name }
func (s *stubScreen) Title() string                           { return s.name }

func typeText(s *SignInScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func newSignedOut(t *testing.T) (*SignInScreen, *screentest.Fixture, *[]*account.Session) {
	t.Helper()
	f := screentest.New(t)
	f.Env.Ctx = context.Background()
	var saved []*account.Session
	f.Env.SaveSession = func(s *account.Session) error {
		saved = append(saved, s)
		return nil
	}
	s := New(f.Env, func(name string, _ *completion.LoginOutcome) screen.Screen {
		return &stubScreen{name: name}
	})
	s.Init()
	return s, f, &saved
}

func TestSignInSuccess(t *testing.T) {
	s, f, saved := newSignedOut(t)

	typeText(s, screentest.Email)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(s, screentest.Password)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil || !s.busy {
		t.Fatal("expected sign-in to start")
	}

	msg, ok := cmd().(signedInMsg)
	if !ok {
		t.Fatal("expected signedInMsg")
	}
	if msg.Err != nil {
		t.Fatalf("sign in: %v", msg.Err)
	}

	_, next := s.Update(msg)
	if next == nil {
		t.Fatal("expected navigation after sign-in")
	}
	userID, err := auth.UserFrom(f.Env.Ctx)
	if err != nil || userID != f.UserID {
		t.Errorf("env context user = %q, %v", userID, err)
	}
	if len(*saved) != 1 || (*saved)[0].UserID != f.UserID {
		t.Errorf("expected session saved once, got %v", *saved)
	}
	if msg.Login == nil || msg.Login.Streak < 1 {
		t.Errorf("expected login to be recorded, got %+v", msg.Login)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	s, _, saved := newSignedOut(t)

	typeText(s, screentest.Email)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}) // moves to password
	typeText(s, "not the password")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	s.Update(cmd())
	if s.busy {
		t.Error("expected form to be usable again")
	}
	if !strings.Contains(s.View(80, 24), "do not match") {
		t.Errorf("expected credential error, got %q", s.errMsg)
	}
	if len(*saved) != 0 {
		t.Error("no session should be saved")
	}
}

func TestSignInRequiresBothFields(t *testing.T) {
	s, _, _ := newSignedOut(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty form must not submit")
	}
	if s.errMsg == "" {
		t.Error("expected a validation message")
	}
}

func TestSignInReplacesScreen(t *testing.T) {
	s, _, _ := newSignedOut(t)
	sess := &account.Session{UserID: "u1", Name: "Robin"}
	_, cmd := s.Update(signedInMsg{Session: sess})

	// Without a login outcome only the replace command is issued.
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Robin" {
		t.Errorf("expected next screen for Robin, got %q", msg.Screen.Title())
	}
}
