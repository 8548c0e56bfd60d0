// Package medals maps a level's correct answers to a medal tier.
package medals

// Medal is the award for a completed level.
type Medal string

const (
	None   Medal = "none"
	Bronze Medal = "bronze"
	Silver Medal = "silver"
	Gold   Medal = "gold"
)

// ForCorrectAnswers returns the medal for n correct answers out of five.
func ForCorrectAnswers(n int) Medal {
	switch {
	case n >= 5:
		return Gold
	case n == 4:
		return Silver
	case n == 3:
		return Bronze
	default:
		return None
	}
}

// DisplayName returns the human-readable medal name.
func (m Medal) DisplayName() string {
	switch m {
	case Gold:
		return "Gold"
	case Silver:
		return "Silver"
	case Bronze:
		return "Bronze"
	default:
		return "No medal"
	}
}

// Icon returns a short glyph for listings.
func (m Medal) Icon() string {
	switch m {
	case Gold:
		return "🥇"
	case Silver:
		return "🥈"
	case Bronze:
		return "🥉"
	default:
		return "·"
	}
}
