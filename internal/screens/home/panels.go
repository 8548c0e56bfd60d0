package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/ui/theme"
)

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 72)
}

// renderStatsBar renders points, streak and achievements in a bordered box.
func renderStatsBar(points, maxPoints, streak, earned, total, cw int) string {
	value := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	text := value.Foreground(theme.Success).Render(fmt.Sprintf("%d/%d", points, maxPoints)) +
		dim.Render(" eco points   ") +
		value.Foreground(theme.Accent).Render(fmt.Sprintf("%d", streak)) +
		dim.Render(" day streak   ") +
		value.Foreground(theme.Secondary).Render(fmt.Sprintf("%d/%d", earned, total)) +
		dim.Render(" achievements")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderFrame wraps content in a double border, centered in the given area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
