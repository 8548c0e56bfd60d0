package profile

import (
	"sort"
	"time"

	"github.com/abhisek/ecoquest/internal/catalog"
)

// DefaultMaxPoints is the progress-bar ceiling given to new profiles.
const DefaultMaxPoints = 1000

// LevelKey identifies a level within a topic.
type LevelKey struct {
	TopicID string
	Level   int
}

// LevelCounters holds per-level progress. Both counters stay within
// [0, catalog.LessonsPerLevel] and CorrectAnswers never exceeds LessonsCompleted.
type LevelCounters struct {
	LessonsCompleted int
	CorrectAnswers   int
}

// Completed reports whether every lesson of the level is done.
func (c LevelCounters) Completed() bool {
	return c.LessonsCompleted >= catalog.LessonsPerLevel
}

// EarnedAchievement is an achievement recorded on the profile.
type EarnedAchievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	EarnedAt    time.Time
}

// Profile is the per-user progress document.
type Profile struct {
	UserID    string
	Name      string
	Email     string
	EcoPoints int
	MaxPoints int
	Streak    int

	// LastLoginDate is zero when the user never logged in.
	LastLoginDate Date

	// Achievements is append-only; an ID appears at most once.
	Achievements []EarnedAchievement

	// Levels holds progress for every level with a recorded entry. A level
	// with an entry at 0/0 is explicitly unlocked.
	Levels map[LevelKey]LevelCounters

	// LegacyLevels is the flat level-id → status map of the older level model.
	// It is only read by MigrateLegacy.
	LegacyLevels map[int]string

	CreatedAt time.Time

	// Version is the optimistic-concurrency token, bumped on every save.
	Version int64
}

// New builds the profile created at signup: level 1 of every catalog topic
// is initialised to 0 lessons so it shows as unlocked.
func New(userID, name, email string, today Date, now time.Time) *Profile {
	p := &Profile{
		UserID:        userID,
		Name:          name,
		Email:         email,
		MaxPoints:     DefaultMaxPoints,
		Streak:        1,
		LastLoginDate: today,
		Levels:        make(map[LevelKey]LevelCounters),
		CreatedAt:     now,
	}
	for _, id := range catalog.IDs() {
		p.Levels[LevelKey{TopicID: id, Level: 1}] = LevelCounters{}
	}
	return p
}

// Counters returns the counters of a level, zero when nothing is recorded.
func (p *Profile) Counters(topicID string, level int) LevelCounters {
	return p.Levels[LevelKey{TopicID: topicID, Level: level}]
}

// HasEntry reports whether the level has an explicit record.
func (p *Profile) HasEntry(topicID string, level int) bool {
	_, ok := p.Levels[LevelKey{TopicID: topicID, Level: level}]
	return ok
}

// SetCounters stores the counters of a level.
func (p *Profile) SetCounters(topicID string, level int, c LevelCounters) {
	if p.Levels == nil {
		p.Levels = make(map[LevelKey]LevelCounters)
	}
	p.Levels[LevelKey{TopicID: topicID, Level: level}] = c
}

// HasAchievement reports whether the achievement id was already earned.
func (p *Profile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// SortedLevelKeys returns the level keys ordered by topic then level.
func (p *Profile) SortedLevelKeys() []LevelKey {
	keys := make([]LevelKey, 0, len(p.Levels))
	for k := range p.Levels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TopicID != keys[j].TopicID {
			return keys[i].TopicID < keys[j].TopicID
		}
		return keys[i].Level < keys[j].Level
	})
	return keys
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Achievements = append([]EarnedAchievement(nil), p.Achievements...)
	c.Levels = make(map[LevelKey]LevelCounters, len(p.Levels))
	for k, v := range p.Levels {
		c.Levels[k] = v
	}
	if p.LegacyLevels != nil {
		c.LegacyLevels = make(map[int]string, len(p.LegacyLevels))
		for k, v := range p.LegacyLevels {
			c.LegacyLevels[k] = v
		}
	}
	return &c
}

// clampCounters forces counters into their valid range.
func clampCounters(c LevelCounters) LevelCounters {
	c.LessonsCompleted = clamp(c.LessonsCompleted, 0, catalog.LessonsPerLevel)
	c.CorrectAnswers = clamp(c.CorrectAnswers, 0, c.LessonsCompleted)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
