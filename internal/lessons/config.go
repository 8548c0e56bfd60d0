package lessons

// QuizOptions is the number of answer options in every quiz.
const QuizOptions = 4

// Config holds lesson generation settings.
type Config struct {
	ParagraphMaxTokens int
	QuizMaxTokens      int
	Temperature        float64
}

// DefaultConfig returns sensible defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		ParagraphMaxTokens: 400,
		QuizMaxTokens:      256,
		Temperature:        0.7,
	}
}
