package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/ui/components"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

const maxTextWidth = 76

func (s *LessonScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(s.renderInfo(width))
	b.WriteString("\n\n")

	textWidth := min(width-8, maxTextWidth)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	switch s.phase {
	case phaseLoading:
		b.WriteString(center(s.spin.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Growing your next lesson...")))

	case phaseReading:
		b.WriteString(center(renderParagraph(s.current.Paragraph, textWidth)))
		b.WriteString("\n\n")
		if s.current.Quiz == nil {
			b.WriteString(center(theme.Hint.Render("No quiz could be prepared for this lesson. Press Enter for another one.")))
		} else {
			b.WriteString(center(theme.Hint.Render("Press Enter when you are ready for the quiz")))
		}

	case phaseQuiz:
		b.WriteString(center(lipgloss.NewStyle().Width(textWidth).Render(s.quiz.View())))

	case phaseSubmitting:
		b.WriteString(center(lipgloss.NewStyle().Width(textWidth).Render(s.quiz.View())))
		b.WriteString("\n")
		b.WriteString(center(s.spin.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Saving your answer...")))

	case phaseFeedback:
		b.WriteString(center(lipgloss.NewStyle().Width(textWidth).Render(s.quiz.View())))
		b.WriteString("\n")
		b.WriteString(center(s.renderFeedback()))

	case phaseFailed:
		b.WriteString(center(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Error).Render(s.errMsg)))
	}

	return b.String()
}

func (s *LessonScreen) renderInfo(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", s.level.Title, s.level.Difficulty.DisplayName()))

	var right string
	if s.counts.Completed() {
		right = lipgloss.NewStyle().Foreground(theme.TextDim).Render("Practice  ")
	} else {
		right = components.NewProgressBar(
			fmt.Sprintf("Lesson %d/%d", s.counts.LessonsCompleted, catalog.LessonsPerLevel),
			s.counts.LessonsCompleted, catalog.LessonsPerLevel, false, 32,
		).View() + "  "
	}

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

func (s *LessonScreen) renderFeedback() string {
	out := s.outcome
	var lines []string

	if s.quiz.IsCorrect() {
		lines = append(lines, theme.Correct.Render("Correct!"))
	} else {
		lines = append(lines, theme.Incorrect.Render("Not quite. The answer was "+s.quiz.Options[s.quiz.CorrectIndex]+"."))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.Success).
		Render(fmt.Sprintf("+%d eco points (total %d)", out.PointsAwarded, out.EcoPoints)))

	if out.LevelCompleted {
		lines = append(lines, "", theme.Selected.Render(
			fmt.Sprintf("Level complete! %d/%d correct", out.CorrectAnswers, catalog.LessonsPerLevel)))
	}
	for _, a := range out.NewAchievements {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("%s Achievement unlocked: %s", a.Icon, a.Name)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderParagraph(text string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Text).
		Render(strings.TrimSpace(text))
}
