package profile

import "github.com/abhisek/ecoquest/internal/catalog"

// Legacy level statuses of the flat level model.
const (
	LegacyCompleted = "completed"
	LegacyUnlocked  = "unlocked"
	LegacyLocked    = "locked"
)

// MigrateLegacy folds LegacyLevels into the topic's level progress and clears
// the legacy map. A completed legacy level becomes 5 lessons with 0 correct
// answers unless the topic already records more; an unlocked one gets a 0/0
// entry when absent. Existing progress is never lowered. It returns the number
// of levels whose progress changed and reports whether the profile changed.
func MigrateLegacy(p *Profile, topicID string) (int, bool) {
	if len(p.LegacyLevels) == 0 {
		return 0, false
	}
	migrated := 0
	for id, status := range p.LegacyLevels {
		if !catalog.ValidLevel(id) {
			continue
		}
		cur, exists := p.Levels[LevelKey{TopicID: topicID, Level: id}]
		switch status {
		case LegacyCompleted:
			if cur.LessonsCompleted < catalog.LessonsPerLevel {
				cur.LessonsCompleted = catalog.LessonsPerLevel
				p.SetCounters(topicID, id, cur)
				migrated++
			}
		case LegacyUnlocked:
			if !exists {
				p.SetCounters(topicID, id, LevelCounters{})
				migrated++
			}
		}
	}
	p.LegacyLevels = nil
	return migrated, true
}
