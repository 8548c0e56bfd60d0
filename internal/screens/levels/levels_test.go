package levels

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/progress"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen/screentest"
	"github.com/abhisek/ecoquest/internal/screens/lesson"
)

func loaded(t *testing.T, f *screentest.Fixture) *LevelsScreen {
	t.Helper()
	topic, _ := catalog.Lookup("e-waste")
	s := New(f.Env, topic)
	s.Update(s.Init()())
	if len(s.rows) != catalog.LevelsPerTopic {
		t.Fatalf("expected %d rows, got %d (err %q)", catalog.LevelsPerTopic, len(s.rows), s.errMsg)
	}
	return s
}

func TestLevelsFreshProfile(t *testing.T) {
	s := loaded(t, screentest.New(t))

	if s.rows[0].Status != progress.Unlocked || s.rows[1].Status != progress.Locked {
		t.Errorf("unexpected statuses %s, %s", s.rows[0].Status, s.rows[1].Status)
	}
	view := s.View(120, 30)
	if !strings.Contains(view, "0/50 lessons") {
		t.Errorf("expected topic stats in view:\n%s", view)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected unlocked level to open")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*lesson.LessonScreen); !ok {
		t.Errorf("expected lesson screen, got %T", push.Screen)
	}
}

func TestLevelsLockedLevelDoesNotOpen(t *testing.T) {
	s := loaded(t, screentest.New(t))
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("locked level must not open")
	}
}

func TestLevelsResumeShowsNewProgress(t *testing.T) {
	f := screentest.New(t)
	s := loaded(t, f)

	_, err := profile.Update(context.Background(), f.Profiles, f.UserID, func(p *profile.Profile) error {
		for i := 0; i < catalog.LessonsPerLevel; i++ {
			progress.CompleteLesson(p, "e-waste", 1, true)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	s.Update(s.Resume()())

	if s.rows[0].Status != progress.Completed || s.rows[1].Status != progress.Unlocked {
		t.Errorf("unexpected statuses %s, %s", s.rows[0].Status, s.rows[1].Status)
	}
	if !strings.Contains(s.View(120, 30), "Gold") {
		t.Error("expected gold medal on completed level")
	}
}
