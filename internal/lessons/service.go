package lessons

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/llm"
	"github.com/abhisek/ecoquest/internal/logger"
	"github.com/abhisek/ecoquest/internal/profile"
)

// Generator produces lessons with two prompts: a reading paragraph for the
// level, then a quiz over that paragraph.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

// NewGenerator creates a lesson generator.
func NewGenerator(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{provider: provider, cfg: cfg, log: log}
}

// Generate builds a lesson for the topic level. A failed paragraph fails the
// lesson; a failed or malformed quiz only leaves Quiz nil.
func (g *Generator) Generate(ctx context.Context, topicID string, level int) (*Lesson, error) {
	topic, ok := catalog.Lookup(topicID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", profile.ErrUnknownTopic, topicID)
	}
	lvl, ok := topic.Level(level)
	if !ok {
		return nil, fmt.Errorf("%w: %d", profile.ErrInvalidLevel, level)
	}

	req := llm.UserPrompt(buildParagraphPrompt(topic, lvl))
	req.System = systemPrompt
	req.MaxTokens = g.cfg.ParagraphMaxTokens
	req.Temperature = g.cfg.Temperature
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeLessonParagraph), req)
	if err != nil {
		return nil, fmt.Errorf("generate lesson paragraph: %w", err)
	}

	lesson := &Lesson{
		TopicID:    topic.ID,
		TopicTitle: topic.Title,
		Level:      lvl,
		Paragraph:  resp.Text,
	}

	quiz, err := g.quiz(ctx, resp.Text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.log.Warn("lesson served without quiz",
			"topic", topic.ID, "level", level, "error", err)
		return lesson, nil
	}
	lesson.Quiz = quiz
	return lesson, nil
}

func (g *Generator) quiz(ctx context.Context, paragraph string) (*Quiz, error) {
	req := llm.UserPrompt(buildQuizPrompt(paragraph))
	req.System = systemPrompt
	req.JSON = true
	req.MaxTokens = g.cfg.QuizMaxTokens
	req.Temperature = g.cfg.Temperature
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeLessonQuiz), req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedQuiz, err)
	}
	return ParseQuiz(resp.Text)
}

// LessonSource is what the Prefetcher needs from a Generator.
type LessonSource interface {
	Generate(ctx context.Context, topicID string, level int) (*Lesson, error)
}

// Prefetcher generates one lesson in the background so the next lesson is
// ready by the time the learner finishes the current one. Only one lesson
// is in flight at a time; a new request supersedes the pending one.
type Prefetcher struct {
	source LessonSource

	mu     sync.Mutex
	gen    int
	cancel context.CancelFunc
	lesson *Lesson
	err    error
	ready  bool
}

// NewPrefetcher creates a Prefetcher over source.
func NewPrefetcher(source LessonSource) *Prefetcher {
	return &Prefetcher{source: source}
}

// Request starts generating a lesson, cancelling any pending one.
func (p *Prefetcher) Request(ctx context.Context, topicID string, level int) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.lesson, p.err, p.ready = nil, nil, false
	p.mu.Unlock()

	go func() {
		defer cancel()
		lesson, err := p.source.Generate(ctx, topicID, level)

		p.mu.Lock()
		defer p.mu.Unlock()
		if gen != p.gen {
			return
		}
		p.lesson, p.err, p.ready = lesson, err, true
		p.cancel = nil
	}()
}

// Consume returns the prefetched lesson once it is ready. ok is false while
// generation is still running or when nothing was requested. After a
// successful consume the slot is empty again.
func (p *Prefetcher) Consume() (lesson *Lesson, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return nil, false, nil
	}
	lesson, err = p.lesson, p.err
	p.lesson, p.err, p.ready = nil, nil, false
	return lesson, true, err
}

// Cancel abandons the pending generation, if any.
func (p *Prefetcher) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.lesson, p.err, p.ready = nil, nil, false
}
