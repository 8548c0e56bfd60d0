package catalog

import (
	"fmt"
	"strings"
)

// validateTopics performs structural checks on the topic set.
// Returns a combined error describing all problems found, or nil if valid.
func validateTopics(ts []Topic) error {
	var errs []string

	seen := make(map[string]bool, len(ts))
	for _, t := range ts {
		if t.ID == "" {
			errs = append(errs, "topic with empty ID")
			continue
		}
		if seen[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate topic ID: %q", t.ID))
		}
		seen[t.ID] = true

		if len(t.Levels) != LevelsPerTopic {
			errs = append(errs, fmt.Sprintf("topic %q has %d levels, want %d", t.ID, len(t.Levels), LevelsPerTopic))
		}
		for i, l := range t.Levels {
			if l.Number != i+1 {
				errs = append(errs, fmt.Sprintf("topic %q level at position %d is numbered %d", t.ID, i+1, l.Number))
			}
			switch l.Difficulty {
			case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
			default:
				errs = append(errs, fmt.Sprintf("topic %q level %d has unknown difficulty %q", t.ID, l.Number, l.Difficulty))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
