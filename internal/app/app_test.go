package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/screen/screentest"
	"github.com/abhisek/ecoquest/internal/screens/signin"
	"github.com/abhisek/ecoquest/internal/screens/welcome"
)

func TestStartsOnSignInWithoutSession(t *testing.T) {
	f := screentest.New(t)
	f.Env.Ctx = context.Background()

	m := newAppModel(f.Env, Options{})
	if _, ok := m.router.Active().(*signin.SignInScreen); !ok {
		t.Errorf("expected sign-in screen, got %T", m.router.Active())
	}
	if m.stats.MaxPoints != 0 {
		t.Error("header stats should be empty before sign-in")
	}
}

func TestStartsOnWelcomeWithSession(t *testing.T) {
	f := screentest.New(t)
	p := f.Profile(t)

	m := newAppModel(f.Env, Options{Name: "Robin", Login: &completion.LoginOutcome{Streak: 1, Profile: p}})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("expected welcome screen, got %T", m.router.Active())
	}
	if m.stats.MaxPoints != p.MaxPoints || m.stats.Streak != 1 {
		t.Errorf("unexpected header stats %+v", m.stats)
	}
}

func TestProfileMsgUpdatesHeader(t *testing.T) {
	f := screentest.New(t)
	m := newAppModel(f.Env, Options{})

	p := f.Profile(t)
	p.EcoPoints = 42
	updated, _ := m.Update(screen.ProfileMsg{Profile: p})
	if got := updated.(AppModel).stats.EcoPoints; got != 42 {
		t.Errorf("header points = %d, want 42", got)
	}
}

func TestEscAtRootIsIgnored(t *testing.T) {
	f := screentest.New(t)
	m := newAppModel(f.Env, Options{})
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}
}
