package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/ui/components"
	"github.com/abhisek/ecoquest/internal/ui/layout"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

// SummaryScreen celebrates a completed level.
type SummaryScreen struct {
	topic   catalog.Topic
	level   catalog.Level
	outcome *completion.Outcome
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for the submission that completed level.
func New(topic catalog.Topic, level catalog.Level, outcome *completion.Outcome) *SummaryScreen {
	return &SummaryScreen{topic: topic, level: level, outcome: outcome}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Level Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Levels"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	out := s.outcome
	if out == nil {
		return ""
	}

	centered := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centered(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		fmt.Sprintf("%s: %s complete!", s.topic.Title, s.level.Title)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.MedalBadge(out.Medal)))
	b.WriteString("\n\n")
	b.WriteString(centered(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Correct: %d/%d        Eco points: %d", out.CorrectAnswers, catalog.LessonsPerLevel, out.EcoPoints)))

	if out.NextLevelUnlocked {
		if next, ok := s.topic.Level(s.level.Number + 1); ok {
			b.WriteString("\n")
			b.WriteString(centered(lipgloss.NewStyle().Foreground(theme.Success),
				fmt.Sprintf("Unlocked level %d: %s", next.Number, next.Title)))
		}
	}

	if len(out.NewAchievements) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		b.WriteString(centered(lipgloss.NewStyle().Foreground(theme.TextDim), "Achievements"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")
		for _, a := range out.NewAchievements {
			b.WriteString(centered(lipgloss.NewStyle().Foreground(theme.Accent),
				fmt.Sprintf("%s %s: %s", a.Icon, a.Name, a.Description)))
		}
	}

	return b.String()
}
