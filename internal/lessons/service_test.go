package lessons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/ecoquest/internal/llm"
	"github.com/abhisek/ecoquest/internal/logger"
	"github.com/abhisek/ecoquest/internal/profile"
)

const validQuiz = `{"question":"What share of e-waste is formally recycled?","options":["About a fifth","All of it","None","Half"],"correctIndex":0}`

func TestGenerator_GeneratesLesson(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Only about a fifth of e-waste is formally recycled."},
		llm.MockResponse{Text: validQuiz},
	)
	g := NewGenerator(mock, DefaultConfig(), nil)

	lesson, err := g.Generate(t.Context(), "e-waste", 2)
	require.NoError(t, err)
	assert.Equal(t, "e-waste", lesson.TopicID)
	assert.Equal(t, 2, lesson.Level.Number)
	assert.Equal(t, "Understanding Recycling Rates", lesson.Level.Title)
	assert.Contains(t, lesson.Paragraph, "fifth")
	require.NotNil(t, lesson.Quiz)
	assert.Len(t, lesson.Quiz.Options, 4)

	require.Equal(t, 2, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Understanding Recycling Rates")
	assert.False(t, mock.Calls[0].JSON)
	assert.Contains(t, mock.Calls[1].Messages[0].Content, lesson.Paragraph)
	assert.True(t, mock.Calls[1].JSON)
}

func TestGenerator_MalformedQuizKeepsLesson(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "A paragraph."},
		llm.MockResponse{Text: "no json here"},
	)
	g := NewGenerator(mock, DefaultConfig(), logger.FromCore(core, logger.Options{}))

	lesson, err := g.Generate(t.Context(), "e-waste", 1)
	require.NoError(t, err)
	assert.Equal(t, "A paragraph.", lesson.Paragraph)
	assert.Nil(t, lesson.Quiz)
	assert.Equal(t, 1, logs.FilterMessage("lesson served without quiz").Len())
}

func TestGenerator_QuizProviderFailureKeepsLesson(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "A paragraph."},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	g := NewGenerator(mock, DefaultConfig(), nil)

	lesson, err := g.Generate(t.Context(), "e-waste", 1)
	require.NoError(t, err)
	assert.Nil(t, lesson.Quiz)
}

func TestGenerator_ParagraphFailureFailsLesson(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	g := NewGenerator(mock, DefaultConfig(), nil)

	_, err := g.Generate(t.Context(), "e-waste", 1)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerator_RejectsUnknownTopicAndLevel(t *testing.T) {
	g := NewGenerator(llm.NewMockProvider(), DefaultConfig(), nil)

	_, err := g.Generate(t.Context(), "volcanoes", 1)
	assert.ErrorIs(t, err, profile.ErrUnknownTopic)

	_, err = g.Generate(t.Context(), "e-waste", 11)
	assert.ErrorIs(t, err, profile.ErrInvalidLevel)
}

type fakeSource struct {
	block chan struct{}
	calls chan string
}

func (f *fakeSource) Generate(ctx context.Context, topicID string, level int) (*Lesson, error) {
	f.calls <- topicID
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Lesson{TopicID: topicID}, nil
}

func waitConsume(t *testing.T, p *Prefetcher) (*Lesson, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if lesson, ok, err := p.Consume(); ok {
			return lesson, err
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("lesson never became ready")
	return nil, nil
}

func TestPrefetcher_RequestAndConsume(t *testing.T) {
	src := &fakeSource{calls: make(chan string, 1)}
	p := NewPrefetcher(src)

	_, ok, _ := p.Consume()
	assert.False(t, ok)

	p.Request(t.Context(), "e-waste", 1)
	lesson, err := waitConsume(t, p)
	require.NoError(t, err)
	assert.Equal(t, "e-waste", lesson.TopicID)

	_, ok, _ = p.Consume()
	assert.False(t, ok, "slot is cleared after consume")
}

func TestPrefetcher_NewRequestSupersedesPending(t *testing.T) {
	src := &fakeSource{block: make(chan struct{}), calls: make(chan string, 2)}
	p := NewPrefetcher(src)

	p.Request(t.Context(), "e-waste", 1)
	<-src.calls
	p.Request(t.Context(), "temperature-change", 1)
	<-src.calls
	close(src.block)

	lesson, err := waitConsume(t, p)
	require.NoError(t, err)
	assert.Equal(t, "temperature-change", lesson.TopicID)
}

func TestPrefetcher_Cancel(t *testing.T) {
	src := &fakeSource{block: make(chan struct{}), calls: make(chan string, 1)}
	p := NewPrefetcher(src)

	p.Request(t.Context(), "e-waste", 1)
	<-src.calls
	p.Cancel()

	time.Sleep(20 * time.Millisecond)
	_, ok, _ := p.Consume()
	assert.False(t, ok)
}
