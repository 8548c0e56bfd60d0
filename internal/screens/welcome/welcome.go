package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const globeArt = `    .-~~~-.
  /  _  ~  \
 | ( )   ~~ |
 |  ~  (__) |
  \  ~~   _/
    '-...-'`

// sparkle frames cycle around the globe
var sparkleFrames = []string{"✿", "❀"}

type tickMsg time.Time

// WelcomeScreen greets the learner after sign-in with their streak and any
// achievements the login earned, then hands over to the home screen.
type WelcomeScreen struct {
	login        *completion.LoginOutcome
	name         string
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen for the recorded login. login may be nil when
// the login could not be recorded.
func New(name string, login *completion.LoginOutcome, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		login:       login,
		name:        name,
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Secondary).Render(globeArt)

	// Phase 2+: sparkles around the globe
	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Success).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 5 {
			lines[0] = s1 + "  " + lines[0] + "  " + s2
			lines[3] = s2 + "  " + lines[3] + "  " + s1
			lines[5] = s1 + "  " + lines[5] + "  " + s2
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	// Phase 3+: banner, greeting and login news
	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render(w.greeting()))

		if w.login != nil {
			sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).
				Render(fmt.Sprintf("☀ %d day streak", w.login.Streak)))
			for _, a := range w.login.NewAchievements {
				sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).
					Render(fmt.Sprintf("%s New achievement: %s", a.Icon, a.Name)))
			}
		}

		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (w *WelcomeScreen) greeting() string {
	if w.name == "" {
		return "Let's help the planet!"
	}
	return fmt.Sprintf("Welcome back, %s! Let's help the planet!", w.name)
}
