// Package completion sequences the progress rules for lesson submissions
// and logins against the persisted profile.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/ecoquest/internal/achievements"
	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/logger"
	"github.com/abhisek/ecoquest/internal/medals"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/progress"
	"github.com/abhisek/ecoquest/internal/rewards"
	"github.com/abhisek/ecoquest/internal/store"
	"github.com/abhisek/ecoquest/internal/streak"
)

// LessonRecorder receives one event per confirmed lesson completion.
type LessonRecorder interface {
	AppendLessonEvent(ctx context.Context, data store.LessonEventData) error
}

// Request is a submitted lesson answer.
type Request struct {
	TopicID string
	Level   int
	Correct bool

	// LevelDuration is the time taken for the whole level, when measured.
	// Only consulted for the submission that completes the level.
	LevelDuration time.Duration
}

// Outcome is the confirmed result of a lesson submission.
type Outcome struct {
	TopicID string
	Level   int
	profile.LevelCounters

	LevelCompleted    bool
	NextLevelUnlocked bool

	// Medal is medals.None unless this submission completed the level.
	Medal medals.Medal

	PointsAwarded int
	EcoPoints     int

	// NewAchievements lists awards made by this submission, in award order.
	NewAchievements []profile.EarnedAchievement

	Profile *profile.Profile
}

// LoginOutcome is the result of recording a login.
type LoginOutcome struct {
	Streak          int
	NewAchievements []profile.EarnedAchievement
	Profile         *profile.Profile
}

type Service struct {
	profiles profile.Repo
	events   LessonRecorder
	engine   *achievements.Engine
	log      *logger.Logger
	now      func() time.Time
}

// NewService wires the orchestrator. events may be nil.
func NewService(profiles profile.Repo, events LessonRecorder, engine *achievements.Engine, log *logger.Logger) *Service {
	return &Service{
		profiles: profiles,
		events:   events,
		engine:   engine,
		log:      log,
		now:      time.Now,
	}
}

// CompleteLessonInLevel records one answered lesson for the user in ctx.
func (s *Service) CompleteLessonInLevel(ctx context.Context, topicID string, level int, isCorrect bool) (*Outcome, error) {
	return s.Complete(ctx, Request{TopicID: topicID, Level: level, Correct: isCorrect})
}

// Complete applies a lesson submission in a single optimistic update:
// progress, then points, then (when the level was just completed) medal and
// level-scoped achievements, then the full achievement scan. A locked level
// is rejected with profile.ErrLevelLocked and nothing is written.
func (s *Service) Complete(ctx context.Context, req Request) (*Outcome, error) {
	userID, err := auth.UserFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := progress.Validate(req.TopicID, req.Level); err != nil {
		return nil, err
	}
	log := s.log.With("user_id", userID, "topic", req.TopicID, "level", req.Level)

	var out *Outcome
	p, err := profile.Update(ctx, s.profiles, userID, func(p *profile.Profile) error {
		if err := progress.RequireUnlocked(p, req.TopicID, req.Level); err != nil {
			return err
		}
		now := s.now()
		res := progress.CompleteLesson(p, req.TopicID, req.Level, req.Correct)
		points := rewards.ForAnswer(req.Correct)
		rewards.AddPoints(p, points)

		o := &Outcome{
			TopicID:           req.TopicID,
			Level:             req.Level,
			LevelCounters:     res.After,
			LevelCompleted:    res.LevelCompleted,
			NextLevelUnlocked: res.NextLevelUnlocked,
			Medal:             medals.None,
			PointsAwarded:     points,
		}
		if res.LevelCompleted {
			o.Medal = medals.ForCorrectAnswers(res.After.CorrectAnswers)
			o.NewAchievements = s.engine.EvaluateLevel(p, achievements.LevelResult{
				TopicID:        req.TopicID,
				Level:          req.Level,
				CorrectAnswers: res.After.CorrectAnswers,
				CompletionTime: req.LevelDuration,
			}, now)
		} else {
			o.NewAchievements = s.engine.Evaluate(p, now)
		}
		out = o
		return nil
	})
	if errors.Is(err, profile.ErrLevelLocked) {
		log.Warn("lesson completion rejected", "error", err)
		return nil, err
	}
	if err != nil {
		log.Error("lesson completion failed", "error", err)
		return nil, fmt.Errorf("complete lesson %s/%d: %w", req.TopicID, req.Level, err)
	}
	out.EcoPoints = p.EcoPoints
	out.Profile = p

	log.Info("lesson completed",
		"lessons", out.LessonsCompleted,
		"correct", out.CorrectAnswers,
		"level_completed", out.LevelCompleted,
		"new_achievements", len(out.NewAchievements))
	s.recordLesson(ctx, userID, req, out)
	return out, nil
}

func (s *Service) recordLesson(ctx context.Context, userID string, req Request, out *Outcome) {
	if s.events == nil {
		return
	}
	ids := make([]string, len(out.NewAchievements))
	for i, a := range out.NewAchievements {
		ids[i] = a.ID
	}
	err := s.events.AppendLessonEvent(ctx, store.LessonEventData{
		UserID:           userID,
		TopicID:          req.TopicID,
		Level:            req.Level,
		Correct:          req.Correct,
		LessonsCompleted: out.LessonsCompleted,
		CorrectAnswers:   out.CorrectAnswers,
		PointsAwarded:    out.PointsAwarded,
		LevelCompleted:   out.LevelCompleted,
		Medal:            string(out.Medal),
		Achievements:     strings.Join(ids, ","),
	})
	if err != nil {
		s.log.Warn("record lesson event", "user_id", userID, "error", err)
	}
}

// Login records a login on today: the streak is updated, then the catalog
// is scanned so streak achievements are awarded. A repeat login on the same
// day with nothing new to award does not write.
func (s *Service) Login(ctx context.Context, today profile.Date) (*LoginOutcome, error) {
	userID, err := auth.UserFrom(ctx)
	if err != nil {
		return nil, err
	}

	var awarded []profile.EarnedAchievement
	p, err := profile.Update(ctx, s.profiles, userID, func(p *profile.Profile) error {
		changed := streak.Apply(p, today)
		awarded = s.engine.Evaluate(p, s.now())
		if !changed && len(awarded) == 0 {
			return profile.ErrNoChanges
		}
		return nil
	})
	if err != nil {
		s.log.Error("login update failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("record login: %w", err)
	}
	return &LoginOutcome{Streak: p.Streak, NewAchievements: awarded, Profile: p}, nil
}

// Profile returns the stored profile of the user in ctx.
func (s *Service) Profile(ctx context.Context) (*profile.Profile, error) {
	userID, err := auth.UserFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Load(ctx, userID)
	if err != nil {
		return nil, profile.Persistence("load profile", err)
	}
	return p, nil
}

// MigrateLegacy converts the user's legacy flat level statuses into progress
// of topicID, then rescans achievements. It returns the number of levels changed.
func (s *Service) MigrateLegacy(ctx context.Context, topicID string) (int, error) {
	userID, err := auth.UserFrom(ctx)
	if err != nil {
		return 0, err
	}
	if err := progress.Validate(topicID, 1); err != nil {
		return 0, err
	}

	var migrated int
	_, err = profile.Update(ctx, s.profiles, userID, func(p *profile.Profile) error {
		n, changed := profile.MigrateLegacy(p, topicID)
		migrated = n
		if !changed {
			return profile.ErrNoChanges
		}
		s.engine.Evaluate(p, s.now())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("migrate legacy progress: %w", err)
	}
	if migrated > 0 {
		s.log.Info("migrated legacy progress", "user_id", userID, "topic", topicID, "levels", migrated)
	}
	return migrated, nil
}

// Reset returns the user's progress to the state of a new signup. The
// account identity and creation time are kept; points, levels and
// achievements are cleared.
func (s *Service) Reset(ctx context.Context) (*profile.Profile, error) {
	userID, err := auth.UserFrom(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p, err := profile.Update(ctx, s.profiles, userID, func(p *profile.Profile) error {
		fresh := profile.New(p.UserID, p.Name, p.Email, profile.DateOf(now), p.CreatedAt)
		fresh.MaxPoints = p.MaxPoints
		fresh.Version = p.Version
		*p = *fresh
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reset progress: %w", err)
	}
	s.log.Info("progress reset", "user_id", userID)
	return p, nil
}

// Restore replaces the user's progress with a previously saved document.
// The document must belong to the user in ctx.
func (s *Service) Restore(ctx context.Context, doc profile.Document) (*profile.Profile, error) {
	userID, err := auth.UserFrom(ctx)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, fmt.Errorf("restore: document belongs to another user")
	}
	saved, err := profile.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	p, err := profile.Update(ctx, s.profiles, userID, func(p *profile.Profile) error {
		restored := saved.Clone()
		restored.Version = p.Version
		*p = *restored
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restore progress: %w", err)
	}
	s.log.Info("progress restored", "user_id", userID)
	return p, nil
}
