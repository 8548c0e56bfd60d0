package lesson

import (
	"github.com/abhisek/ecoquest/internal/completion"
)

// pollMsg asks the screen to check the prefetcher again.
type pollMsg struct{}

// submittedMsg carries the confirmed result of a quiz answer.
type submittedMsg struct {
	Outcome *completion.Outcome
	Err     error
}
