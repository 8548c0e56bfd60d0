// Package levels lists the levels of one topic with their status and medal.
package levels

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/progress"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/screens/lesson"
	"github.com/abhisek/ecoquest/internal/ui/components"
	"github.com/abhisek/ecoquest/internal/ui/layout"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

type profileLoadedMsg struct {
	Profile *profile.Profile
	Err     error
}

// LevelsScreen shows the levels of a topic.
type LevelsScreen struct {
	env   *screen.Env
	topic catalog.Topic

	rows   []progress.LevelRow
	stats  progress.Stats
	cursor int
	errMsg string
}

var _ screen.Screen = (*LevelsScreen)(nil)
var _ screen.KeyHintProvider = (*LevelsScreen)(nil)
var _ screen.Resumer = (*LevelsScreen)(nil)

// New creates a LevelsScreen for topic.
func New(env *screen.Env, topic catalog.Topic) *LevelsScreen {
	return &LevelsScreen{env: env, topic: topic}
}

func (s *LevelsScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads progress after a lesson run.
func (s *LevelsScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *LevelsScreen) load() tea.Cmd {
	ctx, svc := s.env.Ctx, s.env.Progress
	return func() tea.Msg {
		p, err := svc.Profile(ctx)
		return profileLoadedMsg{Profile: p, Err: err}
	}
}

func (s *LevelsScreen) Title() string {
	return s.topic.Title
}

func (s *LevelsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LevelsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.rows = progress.Overview(msg.Profile, s.topic)
		s.stats = progress.TopicStats(msg.Profile, s.topic.ID)
		if s.rows[s.cursor].Status == progress.Locked {
			s.cursor = s.lastOpen()
		}
		return s, nil

	case tea.KeyMsg:
		if len(s.rows) == 0 {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.rows)-1 {
				s.cursor++
			}
		case "enter":
			return s, s.play()
		}
	}
	return s, nil
}

// lastOpen returns the highest level that is not locked.
func (s *LevelsScreen) lastOpen() int {
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].Status != progress.Locked {
			return i
		}
	}
	return 0
}

func (s *LevelsScreen) play() tea.Cmd {
	row := s.rows[s.cursor]
	if row.Status == progress.Locked {
		return nil
	}
	next := lesson.New(s.env, s.topic, row.Level, row.LevelCounters)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *LevelsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.errMsg)
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading levels...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).PaddingLeft(2).Width(width).
		Render(s.topic.Description))
	b.WriteString("\n\n")
	b.WriteString("  " + components.NewProgressBar(
		fmt.Sprintf("%d/%d lessons · %d levels", s.stats.Completed, s.stats.Total, s.stats.LevelsCompleted),
		s.stats.Completed, s.stats.Total, true, min(width-4, 70),
	).View())
	b.WriteString("\n\n")

	for i, row := range s.rows {
		b.WriteString(renderRow(row, i == s.cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

func statusIcon(st progress.Status) string {
	switch st {
	case progress.Completed:
		return "✔"
	case progress.Unlocked:
		return "▶"
	default:
		return "🔒"
	}
}

func renderRow(row progress.LevelRow, selected bool, width int) string {
	nameWidth := max(width-56, 16)
	name := row.Level.Title
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	var nameStyle lipgloss.Style
	switch {
	case selected:
		nameStyle = theme.Selected
	case row.Status == progress.Locked:
		nameStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	case row.Status == progress.Completed:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
	default:
		nameStyle = theme.Unselected
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	var detail string
	switch row.Status {
	case progress.Completed:
		detail = fmt.Sprintf("%d/%d correct  %s", row.CorrectAnswers, catalog.LessonsPerLevel, components.MedalBadge(row.Medal))
	case progress.Unlocked:
		detail = fmt.Sprintf("%d/%d lessons", row.LessonsCompleted, catalog.LessonsPerLevel)
	}

	return fmt.Sprintf("  %s%s %2d  %s  %s  %s",
		cursor,
		statusIcon(row.Status),
		row.Level.Number,
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		dim.Render(fmt.Sprintf("%-12s", row.Level.Difficulty.DisplayName())),
		dim.Render(detail),
	)
}
