package catalog

import "fmt"

const (
	// LevelsPerTopic is the fixed number of levels in every topic.
	LevelsPerTopic = 10

	// LessonsPerLevel is the number of lessons that complete a level.
	LessonsPerLevel = 5
)

// Difficulty is the labelled difficulty of a level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// DisplayName returns a human-readable label for the difficulty.
func (d Difficulty) DisplayName() string {
	switch d {
	case DifficultyBeginner:
		return "Beginner"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyAdvanced:
		return "Advanced"
	case DifficultyExpert:
		return "Expert"
	default:
		return string(d)
	}
}

// Level is one level of a topic.
type Level struct {
	Number     int
	Title      string
	Difficulty Difficulty
}

// Topic is a learning track made of LevelsPerTopic levels.
type Topic struct {
	ID          string
	Title       string
	Description string
	Levels      []Level
}

// Level returns level n of the topic.
func (t Topic) Level(n int) (Level, bool) {
	if n < 1 || n > len(t.Levels) {
		return Level{}, false
	}
	return t.Levels[n-1], true
}

var (
	topics  []Topic
	topicIx map[string]int
)

func init() {
	if err := validateTopics(seedTopics); err != nil {
		panic(fmt.Sprintf("invalid topic catalog: %v", err))
	}
	topics = seedTopics
	topicIx = make(map[string]int, len(topics))
	for i, t := range topics {
		topicIx[t.ID] = i
	}
}

// All returns every topic in display order.
func All() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// IDs returns the topic ids in display order.
func IDs() []string {
	ids := make([]string, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}
	return ids
}

// Lookup returns the topic with the given id.
func Lookup(id string) (Topic, bool) {
	i, ok := topicIx[id]
	if !ok {
		return Topic{}, false
	}
	return topics[i], true
}

// ValidLevel reports whether n is a level number that exists in every topic.
func ValidLevel(n int) bool {
	return n >= 1 && n <= LevelsPerTopic
}
