package lessons

import (
	"fmt"
	"strings"

	"github.com/abhisek/ecoquest/internal/catalog"
)

const systemPrompt = `You are an upbeat environmental science teacher writing short lessons for high school students. Stay factual, avoid alarmism and never invent statistics.`

// difficultyGuidance tunes the paragraph to the level's difficulty label.
var difficultyGuidance = map[catalog.Difficulty]string{
	catalog.DifficultyBeginner:     "Introduce the idea from scratch with one everyday example.",
	catalog.DifficultyIntermediate: "Assume the basics are known and connect causes to effects.",
	catalog.DifficultyAdvanced:     "Compare regions or approaches and mention trade-offs.",
	catalog.DifficultyExpert:       "Pull together several ideas from the topic into one argument.",
}

func buildParagraphPrompt(topic catalog.Topic, level catalog.Level) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic.Title)
	fmt.Fprintf(&b, "About: %s\n", topic.Description)
	fmt.Fprintf(&b, "Level %d of %d: %s (%s)\n", level.Number, catalog.LevelsPerTopic, level.Title,
		level.Difficulty.DisplayName())
	if g, ok := difficultyGuidance[level.Difficulty]; ok {
		b.WriteString(g)
		b.WriteString("\n")
	}
	b.WriteString("\nWrite one engaging paragraph of about 150 words for this level. ")
	b.WriteString("Plain text only: no headings, lists or markdown.")
	return b.String()
}

func buildQuizPrompt(paragraph string) string {
	var b strings.Builder
	b.WriteString("Read this lesson paragraph:\n\n")
	b.WriteString(paragraph)
	b.WriteString("\n\nWrite one multiple-choice question that checks understanding of it. ")
	fmt.Fprintf(&b, "Give exactly %d options with one correct answer. ", QuizOptions)
	b.WriteString(`Reply with a single JSON object of the form `)
	b.WriteString(`{"question": "...", "options": ["...", "...", "...", "..."], "correctIndex": 0} `)
	b.WriteString("where correctIndex is the zero-based index of the correct option.")
	return b.String()
}
