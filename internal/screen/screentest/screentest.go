// Package screentest builds screen environments backed by in-memory stores.
package screentest

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/achievements"
	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/lessons"
	"github.com/abhisek/ecoquest/internal/logger"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/screen"
)

const (
	Email    = "learner@example.com"
	Password = "correct horse"
)

// Fixture is a signed-up learner with an environment scoped to them.
type Fixture struct {
	Env      *screen.Env
	Profiles *profile.MemoryRepo
	UserID   string
	Source   *Source
}

// New signs up a learner and returns an Env whose context carries them.
func New(t *testing.T) *Fixture {
	t.Helper()
	profiles := profile.NewMemoryRepo()
	log := logger.Nop()
	accounts := account.NewService(
		account.NewMemoryUserRepo(), profiles,
		auth.NewPasswordHasherWithCost(bcrypt.MinCost),
		auth.NewTokenManager("screen-test-secret", time.Hour),
		log,
	)
	sess, err := accounts.Signup(context.Background(), Email, Password, "Robin")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	src := &Source{Lesson: QuizLesson()}
	return &Fixture{
		Env: &screen.Env{
			Ctx:          auth.WithUser(context.Background(), sess.UserID),
			Accounts:     accounts,
			Progress:     completion.NewService(profiles, nil, achievements.NewEngine(), log),
			Achievements: achievements.NewEngine(),
			Lessons:      src,
			Log:          log,
		},
		Profiles: profiles,
		UserID:   sess.UserID,
		Source:   src,
	}
}

// Profile loads the learner's stored profile.
func (f *Fixture) Profile(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := f.Profiles.Load(context.Background(), f.UserID)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return p
}

// QuizLesson is a lesson whose correct answer is option C.
func QuizLesson() *lessons.Lesson {
	topic, _ := catalog.Lookup("e-waste")
	level, _ := topic.Level(1)
	return &lessons.Lesson{
		TopicID:    topic.ID,
		TopicTitle: topic.Title,
		Level:      level,
		Paragraph:  "Solar panels turn sunlight into electricity without burning fuel.",
		Quiz: &lessons.Quiz{
			Question:     "What do solar panels use to make electricity?",
			Options:      []string{"Coal", "Wind", "Sunlight", "Gas"},
			CorrectIndex: 2,
		},
	}
}

// Source is a lessons.LessonSource returning a fixed lesson or error.
type Source struct {
	mu     sync.Mutex
	Lesson *lessons.Lesson
	Err    error
	Calls  int
}

func (s *Source) Generate(_ context.Context, _ string, _ int) (*lessons.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	l := *s.Lesson
	return &l, nil
}

// Set swaps the lesson and error returned by later calls.
func (s *Source) Set(l *lessons.Lesson, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lesson, s.Err = l, err
}
