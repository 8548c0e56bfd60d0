package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purposes label requests in the event log and in `ecoquest llm usage`.
const (
	PurposeLessonParagraph = "lesson-paragraph"
	PurposeLessonQuiz      = "lesson-quiz"
)

// WithPurpose tags ctx so the logging decorator can attribute the request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
