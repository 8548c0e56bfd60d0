// Package achievements evaluates the achievement catalog against a profile.
package achievements

import (
	"fmt"
	"time"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/profile"
)

// Definition is one entry of the achievement catalog. Condition is checked on
// every full scan; LevelCondition only when a level has just been completed.
// Either may be nil.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string

	Condition      func(Stats) bool
	LevelCondition func(LevelResult) bool
}

// LevelResult describes a level that was just completed.
type LevelResult struct {
	TopicID        string
	Level          int
	CorrectAnswers int

	// CompletionTime is zero when the duration was not measured.
	CompletionTime time.Duration
}

// Stats is the aggregate view of a profile the conditions are checked against.
type Stats struct {
	TotalLessons         int
	TotalLevelsCompleted int
	GoldMedalCount       int
	CompletedTopicsCount int
	Streak               int
	EcoPoints            int
	EarnedCount          int

	// AllTopicsCompleted is set when every catalog topic has all levels completed.
	AllTopicsCompleted bool

	// AllLevelsGold is set when every catalog level is completed with 5 correct answers.
	AllLevelsGold bool

	// EarnedOthers counts earned catalog achievements other than eco-champion.
	EarnedOthers int
}

// StatsFor aggregates the profile's progress. Only catalog topics and levels
// are counted.
func StatsFor(p *profile.Profile) Stats {
	s := Stats{
		Streak:             p.Streak,
		EcoPoints:          p.EcoPoints,
		EarnedCount:        len(p.Achievements),
		AllTopicsCompleted: true,
		AllLevelsGold:      true,
	}

	for _, t := range catalog.All() {
		completed := 0
		for _, lvl := range t.Levels {
			c := p.Counters(t.ID, lvl.Number)
			s.TotalLessons += c.LessonsCompleted
			if c.Completed() {
				completed++
			}
			if c.CorrectAnswers == catalog.LessonsPerLevel {
				s.GoldMedalCount++
			} else {
				s.AllLevelsGold = false
			}
		}
		s.TotalLevelsCompleted += completed
		if completed == len(t.Levels) {
			s.CompletedTopicsCount++
		} else {
			s.AllTopicsCompleted = false
		}
	}

	for _, a := range p.Achievements {
		if a.ID != EcoChampion && isCatalogID(a.ID) {
			s.EarnedOthers++
		}
	}
	return s
}

func isCatalogID(id string) bool {
	for _, d := range definitions {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Engine evaluates the achievement catalog.
type Engine struct {
	registry []Definition
}

// NewEngine returns an engine loaded with the full catalog.
func NewEngine() *Engine {
	return newEngine(definitions)
}

func newEngine(defs []Definition) *Engine {
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if seen[d.ID] {
			panic(fmt.Sprintf("duplicate achievement id %q", d.ID))
		}
		seen[d.ID] = true
	}
	return &Engine{registry: defs}
}

// Registry returns a copy of the catalog in evaluation order.
func (e *Engine) Registry() []Definition {
	out := make([]Definition, len(e.registry))
	copy(out, e.registry)
	return out
}

// Lookup returns the definition with the given id.
func (e *Engine) Lookup(id string) (Definition, bool) {
	for _, d := range e.registry {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Evaluate scans the catalog in order and appends every satisfied achievement
// the profile has not earned yet. It returns the newly earned entries.
func (e *Engine) Evaluate(p *profile.Profile, now time.Time) []profile.EarnedAchievement {
	return e.scan(p, now, nil)
}

// EvaluateLevel runs the level-scoped checks for a level that was just
// completed, then the full scan.
func (e *Engine) EvaluateLevel(p *profile.Profile, r LevelResult, now time.Time) []profile.EarnedAchievement {
	var awarded []profile.EarnedAchievement
	for _, d := range e.registry {
		if d.LevelCondition == nil || p.HasAchievement(d.ID) {
			continue
		}
		if d.LevelCondition(r) {
			awarded = append(awarded, award(p, d, now))
		}
	}
	return e.scan(p, now, awarded)
}

func (e *Engine) scan(p *profile.Profile, now time.Time, awarded []profile.EarnedAchievement) []profile.EarnedAchievement {
	stats := StatsFor(p)
	stats.EarnedOthers = e.earnedOthers(p)
	others := len(e.registry) - 1
	for _, d := range e.registry {
		if p.HasAchievement(d.ID) {
			continue
		}
		ok := false
		switch {
		case d.ID == EcoChampion:
			ok = stats.EarnedOthers >= others
		case d.Condition != nil:
			ok = d.Condition(stats)
		}
		if !ok {
			continue
		}
		awarded = append(awarded, award(p, d, now))
		stats.EarnedCount++
		if d.ID != EcoChampion {
			stats.EarnedOthers++
		}
	}
	return awarded
}

func (e *Engine) earnedOthers(p *profile.Profile) int {
	n := 0
	for _, d := range e.registry {
		if d.ID != EcoChampion && p.HasAchievement(d.ID) {
			n++
		}
	}
	return n
}

func award(p *profile.Profile, d Definition, now time.Time) profile.EarnedAchievement {
	a := profile.EarnedAchievement{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		EarnedAt:    now,
	}
	p.Achievements = append(p.Achievements, a)
	return a
}
