// Package lesson is the lesson player: it shows a generated paragraph,
// quizzes the learner on it and submits the answer.
package lesson

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/lessons"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/screens/summary"
	"github.com/abhisek/ecoquest/internal/ui/components"
	"github.com/abhisek/ecoquest/internal/ui/layout"
	"github.com/abhisek/ecoquest/internal/ui/theme"
)

const pollInterval = 150 * time.Millisecond

type phase int

const (
	phaseLoading phase = iota
	phaseReading
	phaseQuiz
	phaseSubmitting
	phaseFeedback
	phaseFailed
)

// LessonScreen plays the lessons of one level until it is completed.
// Completed levels can be replayed for practice.
type LessonScreen struct {
	env   *screen.Env
	topic catalog.Topic
	level catalog.Level

	prefetch *lessons.Prefetcher
	spin     spinner.Model

	phase   phase
	current *lessons.Lesson
	quiz    components.MultiChoice
	outcome *completion.Outcome
	counts  profile.LevelCounters
	errMsg  string

	// startedAt is set when the level is started from scratch, so the
	// completion time can be reported for the whole level.
	startedAt time.Time
	now       func() time.Time
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.Leaver = (*LessonScreen)(nil)

// New creates a lesson player for level of topic. counts is the learner's
// progress in the level when the player opens.
func New(env *screen.Env, topic catalog.Topic, level catalog.Level, counts profile.LevelCounters) *LessonScreen {
	s := &LessonScreen{
		env:      env,
		topic:    topic,
		level:    level,
		prefetch: lessons.NewPrefetcher(env.Lessons),
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		counts: counts,
		now:    time.Now,
	}
	if counts.LessonsCompleted == 0 {
		s.startedAt = s.now()
	}
	return s
}

func (s *LessonScreen) Init() tea.Cmd {
	if s.env.Lessons == nil {
		s.phase = phaseFailed
		s.errMsg = "Lesson generation is not configured. Set an LLM API key and try again."
		return nil
	}
	return s.load()
}

func (s *LessonScreen) Title() string {
	return fmt.Sprintf("%s · Level %d", s.topic.Title, s.level.Number)
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseReading:
		if s.current != nil && s.current.Quiz == nil {
			return []layout.KeyHint{{Key: "Enter", Description: "Next lesson"}, {Key: "Esc", Description: "Back"}}
		}
		return []layout.KeyHint{{Key: "Enter", Description: "Take the quiz"}, {Key: "Esc", Description: "Back"}}
	case phaseQuiz:
		return []layout.KeyHint{{Key: "↑↓/A-D", Description: "Choose"}, {Key: "Enter", Description: "Answer"}, {Key: "Esc", Description: "Back"}}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}, {Key: "Esc", Description: "Back"}}
	case phaseFailed:
		return []layout.KeyHint{{Key: "R", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

// Leave stops any lesson still being generated.
func (s *LessonScreen) Leave() {
	s.prefetch.Cancel()
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.phase != phaseLoading && s.phase != phaseSubmitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case pollMsg:
		return s.handlePoll()

	case submittedMsg:
		return s.handleSubmitted(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// load requests a lesson and starts waiting for it.
func (s *LessonScreen) load() tea.Cmd {
	s.phase = phaseLoading
	s.current = nil
	s.prefetch.Request(s.env.Ctx, s.topic.ID, s.level.Number)
	return tea.Batch(s.spin.Tick, poll())
}

// await waits for a lesson that may already be prefetched.
func (s *LessonScreen) await() tea.Cmd {
	s.phase = phaseLoading
	s.current = nil
	return tea.Batch(s.spin.Tick, func() tea.Msg { return pollMsg{} })
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func (s *LessonScreen) handlePoll() (screen.Screen, tea.Cmd) {
	if s.phase != phaseLoading {
		return s, nil
	}
	lesson, ok, err := s.prefetch.Consume()
	if !ok {
		return s, poll()
	}
	if err != nil {
		s.env.Log.Warn("lesson generation failed", "topic", s.topic.ID, "level", s.level.Number, "error", err)
		s.phase = phaseFailed
		s.errMsg = "Could not load the lesson: " + err.Error()
		return s, nil
	}

	s.current = lesson
	s.phase = phaseReading
	if lesson.Quiz != nil {
		s.quiz = components.NewMultiChoice(lesson.Quiz.Question, lesson.Quiz.Options, lesson.Quiz.CorrectIndex)
	}
	// Start on the next lesson while this one is read.
	s.prefetch.Request(s.env.Ctx, s.topic.ID, s.level.Number)
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseReading:
		if msg.String() != "enter" {
			return s, nil
		}
		if s.current.Quiz == nil {
			// Nothing to answer; move on without recording progress.
			return s, s.await()
		}
		s.phase = phaseQuiz
		return s, nil

	case phaseQuiz:
		var cmd tea.Cmd
		s.quiz, cmd = s.quiz.Update(msg)
		if s.quiz.Submitted {
			s.phase = phaseSubmitting
			return s, tea.Batch(cmd, s.spin.Tick, s.submit(s.quiz.IsCorrect()))
		}
		return s, cmd

	case phaseFeedback:
		if msg.String() != "enter" {
			return s, nil
		}
		if s.outcome != nil && s.outcome.LevelCompleted {
			s.prefetch.Cancel()
			sum := summary.New(s.topic, s.level, s.outcome)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
		}
		return s, s.await()

	case phaseFailed:
		if s.env.Lessons != nil && (msg.String() == "r" || msg.String() == "R") {
			return s, s.load()
		}
	}
	return s, nil
}

func (s *LessonScreen) submit(correct bool) tea.Cmd {
	req := completion.Request{
		TopicID: s.topic.ID,
		Level:   s.level.Number,
		Correct: correct,
	}
	// Only a level played start to finish in this sitting has a duration.
	if !s.startedAt.IsZero() && s.counts.LessonsCompleted == catalog.LessonsPerLevel-1 {
		req.LevelDuration = s.now().Sub(s.startedAt)
	}
	ctx := s.env.Ctx
	progress := s.env.Progress
	return func() tea.Msg {
		out, err := progress.Complete(ctx, req)
		return submittedMsg{Outcome: out, Err: err}
	}
}

func (s *LessonScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.env.Log.Error("lesson submission failed", "topic", s.topic.ID, "level", s.level.Number, "error", msg.Err)
		s.phase = phaseFailed
		s.errMsg = "Could not save your answer: " + msg.Err.Error()
		return s, nil
	}
	s.outcome = msg.Outcome
	s.counts = msg.Outcome.LevelCounters
	s.phase = phaseFeedback

	p := msg.Outcome.Profile
	return s, func() tea.Msg { return screen.ProfileMsg{Profile: p} }
}
