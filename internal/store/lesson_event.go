package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLessonEvent(ctx context.Context, data LessonEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder().Insert("lesson_events").
		Columns("sequence", "timestamp", "user_id", "topic_id", "level", "correct",
			"lessons_completed", "correct_answers", "points_awarded", "level_completed",
			"medal", "achievements").
		Values(seqNum, timeNow(), data.UserID, data.TopicID, data.Level, data.Correct,
			data.LessonsCompleted, data.CorrectAnswers, data.PointsAwarded, data.LevelCompleted,
			data.Medal, data.Achievements).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentLessons(ctx context.Context, userID string, opts QueryOpts) ([]LessonEvent, error) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From))
	}
	sel := builder().Select("sequence", "timestamp", "user_id", "topic_id", "level", "correct",
		"lessons_completed", "correct_answers", "points_awarded", "level_completed",
		"medal", "achievements").
		From(entsql.Table("lesson_events")).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	defer rows.Close()

	var out []LessonEvent
	for rows.Next() {
		var e LessonEvent
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.UserID, &e.TopicID, &e.Level, &e.Correct,
			&e.LessonsCompleted, &e.CorrectAnswers, &e.PointsAwarded, &e.LevelCompleted,
			&e.Medal, &e.Achievements); err != nil {
			return nil, fmt.Errorf("scan lesson event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
