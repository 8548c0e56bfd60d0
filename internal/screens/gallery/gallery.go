// Package gallery shows the achievement catalog with the learner's awards.
package gallery

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/achievements"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/ui/layout"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

type filter int

const (
	filterAll filter = iota
	filterEarned
	filterLocked
)

var filterNames = []string{"All", "Earned", "Locked"}

type profileLoadedMsg struct {
	Profile *profile.Profile
	Err     error
}

type entry struct {
	def    achievements.Definition
	earned *profile.EarnedAchievement
}

// GalleryScreen displays every achievement, earned or not.
type GalleryScreen struct {
	env          *screen.Env
	entries      []entry
	filter       filter
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*GalleryScreen)(nil)
var _ screen.KeyHintProvider = (*GalleryScreen)(nil)

// New creates a new GalleryScreen.
func New(env *screen.Env) *GalleryScreen {
	return &GalleryScreen{env: env}
}

func (s *GalleryScreen) Init() tea.Cmd {
	ctx, svc := s.env.Ctx, s.env.Progress
	return func() tea.Msg {
		p, err := svc.Profile(ctx)
		return profileLoadedMsg{Profile: p, Err: err}
	}
}

func (s *GalleryScreen) Title() string {
	return "Achievements"
}

func (s *GalleryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *GalleryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.entries = buildEntries(s.env.Achievements.Registry(), msg.Profile)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.filter = (s.filter + 1) % filter(len(filterNames))
			s.scrollOffset = 0
		case "shift+tab":
			s.filter = (s.filter + filter(len(filterNames)) - 1) % filter(len(filterNames))
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.filtered())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

// buildEntries pairs the catalog with the profile's awards, in catalog order.
func buildEntries(defs []achievements.Definition, p *profile.Profile) []entry {
	earned := make(map[string]*profile.EarnedAchievement, len(p.Achievements))
	for i := range p.Achievements {
		earned[p.Achievements[i].ID] = &p.Achievements[i]
	}
	entries := make([]entry, 0, len(defs))
	for _, d := range defs {
		entries = append(entries, entry{def: d, earned: earned[d.ID]})
	}
	return entries
}

func (s *GalleryScreen) filtered() []entry {
	var out []entry
	for _, e := range s.entries {
		switch {
		case s.filter == filterEarned && e.earned == nil:
		case s.filter == filterLocked && e.earned != nil:
		default:
			out = append(out, e)
		}
	}
	return out
}

func (s *GalleryScreen) earnedCount() int {
	n := 0
	for _, e := range s.entries {
		if e.earned != nil {
			n++
		}
	}
	return n
}

func (s *GalleryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading achievements...")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\nEarned %d of %d\n", s.earnedCount(), len(s.entries))))
	b.WriteString("\n")

	var tabs []string
	for i, name := range filterNames {
		if filter(i) == s.filter {
			tabs = append(tabs, theme.Selected.Render(name))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(name))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	list := s.filtered()
	if len(list) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("Nothing here yet"))
		return b.String()
	}

	maxVisible := max(height-8, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(list))

	for _, e := range list[start:end] {
		var line string
		if e.earned != nil {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(e.def.Color)).Bold(true).
				Render(fmt.Sprintf("%s %-20s", e.def.Icon, e.def.Name)) +
				lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf(" %-44s ", e.def.Description)) +
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.earned.EarnedAt.Format("Jan 02, 2006"))
		} else {
			line = lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("🔒 %-20s %-44s", e.def.Name, e.def.Description))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	if end < len(list) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(list)-end)))
	}

	return b.String()
}
