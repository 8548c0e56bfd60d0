// Package rewards applies eco point deltas.
package rewards

import "github.com/abhisek/ecoquest/internal/profile"

const (
	// CorrectAnswerPoints is awarded for a correctly answered lesson.
	CorrectAnswerPoints = 2

	// IncorrectAnswerPoints is the "still learning" credit for a wrong answer.
	IncorrectAnswerPoints = 1
)

// ForAnswer returns the points earned by one lesson answer.
func ForAnswer(isCorrect bool) int {
	if isCorrect {
		return CorrectAnswerPoints
	}
	return IncorrectAnswerPoints
}

// AddPoints adds delta to the profile's eco points and returns the new total.
// The total never goes below zero; MaxPoints is not enforced.
func AddPoints(p *profile.Profile, delta int) int {
	p.EcoPoints = max(p.EcoPoints+delta, 0)
	return p.EcoPoints
}
