package lessons

import "github.com/abhisek/ecoquest/internal/catalog"

// Lesson is one generated reading paragraph plus its quiz.
type Lesson struct {
	TopicID    string
	TopicTitle string
	Level      catalog.Level
	Paragraph  string

	// Quiz is nil when the model's quiz could not be parsed. The paragraph
	// is still shown, but the player moves on without recording progress.
	Quiz *Quiz
}

// Quiz is a four-option multiple-choice question.
type Quiz struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// IsCorrect reports whether choice is the correct option.
func (q *Quiz) IsCorrect(choice int) bool {
	return q != nil && choice == q.CorrectIndex
}
