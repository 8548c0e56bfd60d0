package home

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
	"github.com/abhisek/ecoquest/internal/screens/gallery"
	"github.com/abhisek/ecoquest/internal/screens/levels"
	"github.com/abhisek/ecoquest/internal/ui/components"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

type profileLoadedMsg struct {
	Profile *profile.Profile
	Err     error
}

// HomeScreen lists the topics and leads to the achievement gallery.
type HomeScreen struct {
	env     *screen.Env
	menu    components.Menu
	profile *profile.Profile
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.menu = components.NewMenu(h.items(nil))
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume refreshes topic progress when returning from a topic.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	ctx, svc := h.env.Ctx, h.env.Progress
	return func() tea.Msg {
		p, err := svc.Profile(ctx)
		return profileLoadedMsg{Profile: p, Err: err}
	}
}

// items builds one entry per topic followed by the gallery and quit.
func (h *HomeScreen) items(p *profile.Profile) []components.MenuItem {
	var items []components.MenuItem
	for _, topic := range catalog.All() {
		item := components.MenuItem{
			Label: topic.Title,
			Action: func() tea.Cmd {
				next := levels.New(h.env, topic)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		}
		if p != nil {
			st := progress.TopicStats(p, topic.ID)
			item.Detail = fmt.Sprintf("%d/%d lessons", st.Completed, st.Total)
		}
		items = append(items, item)
	}
	items = append(items,
		components.MenuItem{Label: "Achievements", Action: func() tea.Cmd {
			next := gallery.New(h.env)
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	return items
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.profile = msg.Profile
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items(msg.Profile))
		h.menu.Selected = selected
		p := msg.Profile
		return h, func() tea.Msg { return screen.ProfileMsg{Profile: p} }

	case screen.ProfileMsg:
		h.profile = msg.Profile
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)

	var sections []string
	greeting := "Welcome to EcoQuest"
	if h.profile != nil && h.profile.Name != "" {
		greeting = "Hi " + h.profile.Name + ", where shall we explore today?"
	}
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).Align(lipgloss.Center).Foreground(theme.Primary).Bold(true).
		Render(greeting))

	if height >= 26 {
		streak := 0
		if h.profile != nil {
			streak = h.profile.Streak
		}
		sections = append(sections, renderMascotBox(mascotFor(streak), cw))
	}

	if h.profile != nil {
		sections = append(sections, renderStatsBar(
			h.profile.EcoPoints, h.profile.MaxPoints, h.profile.Streak,
			len(h.profile.Achievements), len(h.env.Achievements.Registry()), cw))
	}
	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Foreground(theme.Error).Render("Error: "+h.errMsg))
	}

	sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
