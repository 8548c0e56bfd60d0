package progress

import (
	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/medals"
	"github.com/abhisek/ecoquest/internal/profile"
)

// TopicLessons is the number of lessons in a whole topic.
const TopicLessons = catalog.LevelsPerTopic * catalog.LessonsPerLevel

// Stats summarises a learner's progress through one topic.
type Stats struct {
	Completed       int
	Total           int
	Percentage      float64
	LevelsCompleted int
}

// TopicStats counts completed lessons and levels of a topic.
func TopicStats(p *profile.Profile, topicID string) Stats {
	s := Stats{Total: TopicLessons}
	for n := 1; n <= catalog.LevelsPerTopic; n++ {
		c := p.Counters(topicID, n)
		s.Completed += c.LessonsCompleted
		if c.Completed() {
			s.LevelsCompleted++
		}
	}
	s.Percentage = float64(s.Completed) * 100 / float64(s.Total)
	return s
}

// LevelRow is one line of a topic overview.
type LevelRow struct {
	Level  catalog.Level
	Status Status
	profile.LevelCounters

	// Medal is medals.None until the level is completed.
	Medal medals.Medal
}

// Overview returns one row per catalog level of the topic.
func Overview(p *profile.Profile, topic catalog.Topic) []LevelRow {
	rows := make([]LevelRow, 0, len(topic.Levels))
	for _, lvl := range topic.Levels {
		row := LevelRow{
			Level:         lvl,
			Status:        LevelStatus(p, topic.ID, lvl.Number),
			LevelCounters: p.Counters(topic.ID, lvl.Number),
			Medal:         medals.None,
		}
		if row.Status == Completed {
			row.Medal = medals.ForCorrectAnswers(row.CorrectAnswers)
		}
		rows = append(rows, row)
	}
	return rows
}
