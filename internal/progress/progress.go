// Package progress tracks lesson and level progress within topics.
package progress

import (
	"fmt"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/profile"
)

// Status is the derived state of a level.
type Status string

const (
	Locked    Status = "locked"
	Unlocked  Status = "unlocked"
	Completed Status = "completed"
)

// Validate checks that topicID is in the catalog and level is within 1..10.
func Validate(topicID string, level int) error {
	if _, ok := catalog.Lookup(topicID); !ok {
		return fmt.Errorf("%w: %q", profile.ErrUnknownTopic, topicID)
	}
	if !catalog.ValidLevel(level) {
		return fmt.Errorf("%w: %d", profile.ErrInvalidLevel, level)
	}
	return nil
}

// RequireUnlocked returns ErrLevelLocked unless the level can be played.
// Completed levels stay playable for practice.
func RequireUnlocked(p *profile.Profile, topicID string, level int) error {
	if LevelStatus(p, topicID, level) == Locked {
		return fmt.Errorf("%w: %s level %d", profile.ErrLevelLocked, topicID, level)
	}
	return nil
}

// LessonProgress returns the lessons completed in a level, 0 when absent.
func LessonProgress(p *profile.Profile, topicID string, level int) int {
	return p.Counters(topicID, level).LessonsCompleted
}

// CorrectAnswers returns the correct answers recorded for a level, 0 when absent.
func CorrectAnswers(p *profile.Profile, topicID string, level int) int {
	return p.Counters(topicID, level).CorrectAnswers
}

// LevelStatus derives the status of a level. Level 1 is never locked; any
// other level unlocks once it has progress or the previous level is completed.
func LevelStatus(p *profile.Profile, topicID string, level int) Status {
	lessons := LessonProgress(p, topicID, level)
	switch {
	case lessons >= catalog.LessonsPerLevel:
		return Completed
	case lessons > 0, level == 1:
		return Unlocked
	case LessonProgress(p, topicID, level-1) >= catalog.LessonsPerLevel:
		return Unlocked
	default:
		return Locked
	}
}

// Result describes one lesson completion.
type Result struct {
	TopicID string
	Level   int
	Before  profile.LevelCounters
	After   profile.LevelCounters

	// LevelCompleted is set only when this lesson finished the level.
	LevelCompleted bool

	// NextLevelUnlocked is set when the following level received its 0/0 entry.
	NextLevelUnlocked bool
}

// CompleteLesson records one finished lesson. Both counters are clamped at
// catalog.LessonsPerLevel and never decrease. When this lesson completes the
// level and the next level has no entry yet, the next level is initialised to
// 0/0. Replaying an already completed level initialises nothing.
func CompleteLesson(p *profile.Profile, topicID string, level int, isCorrect bool) Result {
	before := p.Counters(topicID, level)
	after := before
	after.LessonsCompleted = min(before.LessonsCompleted+1, catalog.LessonsPerLevel)
	if isCorrect {
		after.CorrectAnswers = min(before.CorrectAnswers+1, catalog.LessonsPerLevel)
	}
	after.CorrectAnswers = min(after.CorrectAnswers, after.LessonsCompleted)
	p.SetCounters(topicID, level, after)

	res := Result{
		TopicID:        topicID,
		Level:          level,
		Before:         before,
		After:          after,
		LevelCompleted: !before.Completed() && after.Completed(),
	}

	next := level + 1
	if res.LevelCompleted && catalog.ValidLevel(next) && !p.HasEntry(topicID, next) {
		p.SetCounters(topicID, next, profile.LevelCounters{})
		res.NextLevelUnlocked = true
	}
	return res
}
