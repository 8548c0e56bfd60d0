package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/medals"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

// MedalBadge renders a medal icon and name in its metal color.
func MedalBadge(m medals.Medal) string {
	return lipgloss.NewStyle().
		Foreground(medalColor(m)).
		Bold(m != medals.None).
		Render(m.Icon() + " " + m.DisplayName())
}

func medalColor(m medals.Medal) color.Color {
	switch m {
	case medals.Gold:
		return theme.Gold
	case medals.Silver:
		return theme.Silver
	case medals.Bronze:
		return theme.Bronze
	default:
		return theme.TextDim
	}
}
