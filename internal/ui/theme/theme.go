package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, leaning on forest and ocean tones
var (
	Primary   = lipgloss.Color("#16A34A") // Forest
	Secondary = lipgloss.Color("#0EA5E9") // Ocean
	Accent    = lipgloss.Color("#EAB308") // Sun
	Success   = lipgloss.Color("#22C55E") // Leaf
	Error     = lipgloss.Color("#EF4444") // Ember
	Text      = lipgloss.Color("#F0FDF4") // Mist
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#052E16") // Deep Green
	BgCard    = lipgloss.Color("#14532D") // Moss
	Border    = lipgloss.Color("#166534") // Fern
)

// Medal colors
var (
	Gold   = lipgloss.Color("#FACC15")
	Silver = lipgloss.Color("#CBD5E1")
	Bronze = lipgloss.Color("#D97706")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
