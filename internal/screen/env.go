package screen

import (
	"context"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/achievements"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/lessons"
	"github.com/abhisek/ecoquest/internal/logger"
	"github.com/abhisek/ecoquest/internal/profile"
)

// Env is shared by every screen of one terminal session.
type Env struct {
	// Ctx carries the signed-in learner. It is replaced on sign-in.
	Ctx context.Context

	Accounts     *account.Service
	Progress     *completion.Service
	Achievements *achievements.Engine

	// Lessons may be nil, in which case lesson screens report that no
	// generator is set up.
	Lessons lessons.LessonSource

	// SaveSession persists a fresh sign-in so later runs skip the form.
	SaveSession func(*account.Session) error

	Log *logger.Logger
}

// ProfileMsg announces the learner's latest profile, e.g. after a lesson
// submission. The app uses it to refresh the header.
type ProfileMsg struct {
	Profile *profile.Profile
}
