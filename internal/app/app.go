// Package app hosts the EcoQuest terminal client.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/screens/home"
	"github.com/abhisek/ecoquest/internal/screens/signin"
	"github.com/abhisek/ecoquest/internal/screens/welcome"
	"github.com/abhisek/ecoquest/internal/ui/layout"
)

// Options describes how the client starts.
type Options struct {
	// Name and Login describe a saved session whose login was already
	// recorded. They are ignored when Env.Ctx carries no user.
	Name  string
	Login *completion.LoginOutcome
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	stats  layout.HeaderStats
	width  int
	height int
}

// newAppModel starts on the welcome screen for a signed-in learner and on
// the sign-in form otherwise.
func newAppModel(env *screen.Env, opts Options) AppModel {
	toHome := func() screen.Screen { return home.New(env) }
	greet := func(name string, login *completion.LoginOutcome) screen.Screen {
		return welcome.New(name, login, toHome)
	}

	var first screen.Screen
	if _, err := auth.UserFrom(env.Ctx); err == nil {
		first = greet(opts.Name, opts.Login)
	} else {
		first = signin.New(env, greet)
	}

	m := AppModel{router: router.New(first)}
	if opts.Login != nil && opts.Login.Profile != nil {
		m.stats = statsOf(opts.Login.Profile.EcoPoints, opts.Login.Profile.MaxPoints, opts.Login.Profile.Streak)
	}
	return m
}

func statsOf(points, maxPoints, streak int) layout.HeaderStats {
	return layout.HeaderStats{EcoPoints: points, MaxPoints: maxPoints, Streak: streak}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProfileMsg:
		if msg.Profile != nil {
			m.stats = statsOf(msg.Profile.EcoPoints, msg.Profile.MaxPoints, msg.Profile.Streak)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(env *screen.Env, opts Options) error {
	p := tea.NewProgram(newAppModel(env, opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
