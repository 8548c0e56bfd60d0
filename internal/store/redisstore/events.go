package redisstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/ecoquest/internal/store"
)

// Streams are capped so that an abandoned install does not grow without bound.
const streamMaxLen = 10000

var timeNow = time.Now

type eventRepo struct {
	s *Store
}

func (r *eventRepo) AppendLessonEvent(ctx context.Context, data store.LessonEventData) error {
	seq, err := r.s.client.Incr(ctx, r.s.sequenceKey()).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	err = r.s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.s.lessonStream(data.UserID),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"sequence":          seq,
			"timestamp":         timeNow().UTC().Format(time.RFC3339Nano),
			"user_id":           data.UserID,
			"topic_id":          data.TopicID,
			"level":             data.Level,
			"correct":           strconv.FormatBool(data.Correct),
			"lessons_completed": data.LessonsCompleted,
			"correct_answers":   data.CorrectAnswers,
			"points_awarded":    data.PointsAwarded,
			"level_completed":   strconv.FormatBool(data.LevelCompleted),
			"medal":             data.Medal,
			"achievements":      data.Achievements,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentLessons(ctx context.Context, userID string, opts store.QueryOpts) ([]store.LessonEvent, error) {
	var msgs []redis.XMessage
	var err error
	if opts.Limit > 0 {
		msgs, err = r.s.client.XRevRangeN(ctx, r.s.lessonStream(userID), "+", "-", int64(opts.Limit)).Result()
	} else {
		msgs, err = r.s.client.XRevRange(ctx, r.s.lessonStream(userID), "+", "-").Result()
	}
	if err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}

	out := make([]store.LessonEvent, 0, len(msgs))
	for _, m := range msgs {
		e := decodeLesson(m.Values)
		if !opts.From.IsZero() && e.Timestamp.Before(opts.From) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	seq, err := r.s.client.Incr(ctx, r.s.sequenceKey()).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	err = r.s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.s.llmStream(),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"sequence":      seq,
			"timestamp":     timeNow().UTC().Format(time.RFC3339Nano),
			"provider":      data.Provider,
			"model":         data.Model,
			"purpose":       data.Purpose,
			"input_tokens":  data.InputTokens,
			"output_tokens": data.OutputTokens,
			"latency_ms":    data.LatencyMs,
			"success":       strconv.FormatBool(data.Success),
			"error_message": data.ErrorMessage,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// LLMUsage aggregates the request stream client-side.
func (r *eventRepo) LLMUsage(ctx context.Context, opts store.QueryOpts) ([]store.LLMUsage, error) {
	msgs, err := r.s.client.XRange(ctx, r.s.llmStream(), "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}

	type agg struct {
		store.LLMUsage
		latency int64
	}
	byKey := map[string]*agg{}
	for _, m := range msgs {
		ts := parseTime(m.Values["timestamp"])
		if !opts.From.IsZero() && ts.Before(opts.From) {
			continue
		}
		provider, model := str(m.Values["provider"]), str(m.Values["model"])
		key := provider + "\x00" + model
		a, ok := byKey[key]
		if !ok {
			a = &agg{LLMUsage: store.LLMUsage{Provider: provider, Model: model}}
			byKey[key] = a
		}
		a.Requests++
		if !parseBool(m.Values["success"]) {
			a.Failures++
		}
		a.InputTokens += atoi(m.Values["input_tokens"])
		a.OutputTokens += atoi(m.Values["output_tokens"])
		a.latency += int64(atoi(m.Values["latency_ms"]))
	}

	out := make([]store.LLMUsage, 0, len(byKey))
	for _, a := range byKey {
		a.AvgLatencyMs = a.latency / int64(a.Requests)
		out = append(out, a.LLMUsage)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}

func decodeLesson(v map[string]any) store.LessonEvent {
	seq, _ := strconv.ParseInt(str(v["sequence"]), 10, 64)
	return store.LessonEvent{
		Sequence:  seq,
		Timestamp: parseTime(v["timestamp"]),
		LessonEventData: store.LessonEventData{
			UserID:           str(v["user_id"]),
			TopicID:          str(v["topic_id"]),
			Level:            atoi(v["level"]),
			Correct:          parseBool(v["correct"]),
			LessonsCompleted: atoi(v["lessons_completed"]),
			CorrectAnswers:   atoi(v["correct_answers"]),
			PointsAwarded:    atoi(v["points_awarded"]),
			LevelCompleted:   parseBool(v["level_completed"]),
			Medal:            str(v["medal"]),
			Achievements:     str(v["achievements"]),
		},
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func atoi(v any) int {
	n, _ := strconv.Atoi(strings.TrimSpace(str(v)))
	return n
}

func parseBool(v any) bool {
	b, _ := strconv.ParseBool(str(v))
	return b
}

func parseTime(v any) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, str(v))
	return t
}
