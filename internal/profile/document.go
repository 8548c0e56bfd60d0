package profile

import (
	"fmt"
	"strconv"
	"time"

	"github.com/abhisek/ecoquest/internal/catalog"
)

// Document is the JSON shape of a stored user document. Level numbers are
// string keys, as in topicProgress.<topicId>.<levelNumber>.
type Document struct {
	UserID              string                    `json:"userId"`
	Name                string                    `json:"name"`
	Email               string                    `json:"email"`
	EcoPoints           int                       `json:"ecoPoints"`
	MaxPoints           int                       `json:"maxPoints"`
	Streak              int                       `json:"streak"`
	LastLoginDate       Date                      `json:"lastLoginDate"`
	Achievements        []AchievementDocument     `json:"achievements"`
	TopicProgress       map[string]map[string]int `json:"topicProgress"`
	TopicCorrectAnswers map[string]map[string]int `json:"topicCorrectAnswers"`
	LevelProgress       map[string]string         `json:"levelProgress,omitempty"`
	CreatedAt           time.Time                 `json:"createdAt"`
	Version             int64                     `json:"version"`
}

// AchievementDocument is one element of Document.Achievements.
type AchievementDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Earned      bool      `json:"earned"`
	EarnedAt    time.Time `json:"earnedAt"`
}

// ToDocument encodes the profile into its document shape.
func ToDocument(p *Profile) Document {
	d := Document{
		UserID:              p.UserID,
		Name:                p.Name,
		Email:               p.Email,
		EcoPoints:           p.EcoPoints,
		MaxPoints:           p.MaxPoints,
		Streak:              p.Streak,
		LastLoginDate:       p.LastLoginDate,
		Achievements:        make([]AchievementDocument, 0, len(p.Achievements)),
		TopicProgress:       make(map[string]map[string]int),
		TopicCorrectAnswers: make(map[string]map[string]int),
		CreatedAt:           p.CreatedAt,
		Version:             p.Version,
	}
	for _, a := range p.Achievements {
		d.Achievements = append(d.Achievements, AchievementDocument{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Color:       a.Color,
			Earned:      true,
			EarnedAt:    a.EarnedAt,
		})
	}
	for k, c := range p.Levels {
		lvl := strconv.Itoa(k.Level)
		if d.TopicProgress[k.TopicID] == nil {
			d.TopicProgress[k.TopicID] = make(map[string]int)
		}
		d.TopicProgress[k.TopicID][lvl] = c.LessonsCompleted
		if c.CorrectAnswers > 0 {
			if d.TopicCorrectAnswers[k.TopicID] == nil {
				d.TopicCorrectAnswers[k.TopicID] = make(map[string]int)
			}
			d.TopicCorrectAnswers[k.TopicID][lvl] = c.CorrectAnswers
		}
	}
	if len(p.LegacyLevels) > 0 {
		d.LevelProgress = make(map[string]string, len(p.LegacyLevels))
		for id, status := range p.LegacyLevels {
			d.LevelProgress[strconv.Itoa(id)] = status
		}
	}
	return d
}

// FromDocument decodes a stored document. Counters outside their valid range
// are clamped, level numbers outside 1..10 are dropped and non-numeric level
// keys are rejected.
func FromDocument(d Document) (*Profile, error) {
	p := &Profile{
		UserID:        d.UserID,
		Name:          d.Name,
		Email:         d.Email,
		EcoPoints:     max(d.EcoPoints, 0),
		MaxPoints:     d.MaxPoints,
		Streak:        max(d.Streak, 0),
		LastLoginDate: d.LastLoginDate,
		Levels:        make(map[LevelKey]LevelCounters),
		CreatedAt:     d.CreatedAt,
		Version:       d.Version,
	}
	if p.MaxPoints <= 0 {
		p.MaxPoints = DefaultMaxPoints
	}

	seen := make(map[string]bool, len(d.Achievements))
	for _, a := range d.Achievements {
		if a.ID == "" || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		p.Achievements = append(p.Achievements, EarnedAchievement{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Color:       a.Color,
			EarnedAt:    a.EarnedAt,
		})
	}

	for topicID, levels := range d.TopicProgress {
		for key, lessons := range levels {
			n, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("topicProgress.%s.%s: invalid level number", topicID, key)
			}
			if !catalog.ValidLevel(n) {
				continue
			}
			p.Levels[LevelKey{TopicID: topicID, Level: n}] = LevelCounters{LessonsCompleted: lessons}
		}
	}
	for topicID, levels := range d.TopicCorrectAnswers {
		for key, correct := range levels {
			n, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("topicCorrectAnswers.%s.%s: invalid level number", topicID, key)
			}
			if !catalog.ValidLevel(n) {
				continue
			}
			k := LevelKey{TopicID: topicID, Level: n}
			c := p.Levels[k]
			c.CorrectAnswers = correct
			p.Levels[k] = c
		}
	}
	for k, c := range p.Levels {
		p.Levels[k] = clampCounters(c)
	}

	if len(d.LevelProgress) > 0 {
		p.LegacyLevels = make(map[int]string, len(d.LevelProgress))
		for key, status := range d.LevelProgress {
			n, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("levelProgress.%s: invalid level id", key)
			}
			p.LegacyLevels[n] = status
		}
	}
	return p, nil
}
