package store

import (
	"context"
	"time"

	"github.com/abhisek/ecoquest/internal/profile"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
}

// LessonEventData captures one confirmed lesson completion.
type LessonEventData struct {
	UserID           string
	TopicID          string
	Level            int
	Correct          bool
	LessonsCompleted int
	CorrectAnswers   int
	PointsAwarded    int
	LevelCompleted   bool
	Medal            string

	// Achievements is a comma-separated list of ids awarded by this lesson.
	Achievements string
}

// LessonEvent is a stored lesson completion.
type LessonEvent struct {
	Sequence  int64
	Timestamp time.Time
	LessonEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsage aggregates LLM requests per provider and model.
type LLMUsage struct {
	Provider     string
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendLessonEvent records a lesson completion.
	AppendLessonEvent(ctx context.Context, data LessonEventData) error

	// RecentLessons returns a user's lesson events, newest first.
	RecentLessons(ctx context.Context, userID string, opts QueryOpts) ([]LessonEvent, error)

	// LLMUsage aggregates LLM request events.
	LLMUsage(ctx context.Context, opts QueryOpts) ([]LLMUsage, error)
}

// Snapshot is a point-in-time copy of a profile taken before a destructive
// operation such as a reset or a legacy migration.
type Snapshot struct {
	ID        int
	UserID    string
	Reason    string
	Sequence  int64
	Timestamp time.Time
	Data      profile.Document
}

// SnapshotRepo manages profile snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the user's most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, userID string) (*Snapshot, error)

	// Prune deletes all but the user's N most recent snapshots.
	Prune(ctx context.Context, userID string, keep int) error
}
