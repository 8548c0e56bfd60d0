package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/ecoquest/internal/profile"
)

// profileRepo stores a profile as one row in profiles plus rows in
// level_progress and achievements. Save is a compare-and-swap on version.
type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) Create(ctx context.Context, p *profile.Profile) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := profileExists(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		if exists {
			return profile.ErrProfileExists
		}

		legacy, err := encodeLegacy(p.LegacyLevels)
		if err != nil {
			return err
		}
		q, args := builder().Insert("profiles").
			Columns("user_id", "name", "email", "eco_points", "max_points", "streak",
				"last_login_date", "legacy_levels", "created_at", "version").
			Values(p.UserID, p.Name, p.Email, p.EcoPoints, p.MaxPoints, p.Streak,
				p.LastLoginDate.String(), legacy, p.CreatedAt, 1).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		if err := writeChildren(ctx, tx, p); err != nil {
			return err
		}
		p.Version = 1
		return nil
	})
}

func (r *profileRepo) Load(ctx context.Context, userID string) (*profile.Profile, error) {
	q, args := builder().Select("name", "email", "eco_points", "max_points", "streak",
		"last_login_date", "legacy_levels", "created_at", "version").
		From(entsql.Table("profiles")).
		Where(entsql.EQ("user_id", userID)).
		Query()

	p := &profile.Profile{UserID: userID, Levels: make(map[profile.LevelKey]profile.LevelCounters)}
	var lastLogin, legacy string
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&p.Name, &p.Email, &p.EcoPoints, &p.MaxPoints,
		&p.Streak, &lastLogin, &legacy, &p.CreatedAt, &p.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	if p.LastLoginDate, err = profile.ParseDate(lastLogin); err != nil {
		return nil, err
	}
	if p.LegacyLevels, err = decodeLegacy(legacy); err != nil {
		return nil, err
	}

	if err := r.loadLevels(ctx, p); err != nil {
		return nil, err
	}
	if err := r.loadAchievements(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepo) loadLevels(ctx context.Context, p *profile.Profile) error {
	q, args := builder().Select("topic_id", "level", "lessons_completed", "correct_answers").
		From(entsql.Table("level_progress")).
		Where(entsql.EQ("user_id", p.UserID)).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("query level progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k profile.LevelKey
		var c profile.LevelCounters
		if err := rows.Scan(&k.TopicID, &k.Level, &c.LessonsCompleted, &c.CorrectAnswers); err != nil {
			return fmt.Errorf("scan level progress: %w", err)
		}
		p.Levels[k] = c
	}
	return rows.Err()
}

func (r *profileRepo) loadAchievements(ctx context.Context, p *profile.Profile) error {
	q, args := builder().Select("achievement_id", "name", "description", "icon", "color", "earned_at").
		From(entsql.Table("achievements")).
		Where(entsql.EQ("user_id", p.UserID)).
		OrderBy(entsql.Asc("id")).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a profile.EarnedAchievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Color, &a.EarnedAt); err != nil {
			return fmt.Errorf("scan achievement: %w", err)
		}
		p.Achievements = append(p.Achievements, a)
	}
	return rows.Err()
}

func (r *profileRepo) Save(ctx context.Context, p *profile.Profile) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		legacy, err := encodeLegacy(p.LegacyLevels)
		if err != nil {
			return err
		}
		q, args := builder().Update("profiles").
			Set("name", p.Name).
			Set("email", p.Email).
			Set("eco_points", p.EcoPoints).
			Set("max_points", p.MaxPoints).
			Set("streak", p.Streak).
			Set("last_login_date", p.LastLoginDate.String()).
			Set("legacy_levels", legacy).
			Add("version", 1).
			Where(entsql.And(
				entsql.EQ("user_id", p.UserID),
				entsql.EQ("version", p.Version),
			)).
			Query()
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if n == 0 {
			exists, err := profileExists(ctx, tx, p.UserID)
			if err != nil {
				return err
			}
			if !exists {
				return profile.ErrProfileNotFound
			}
			return profile.ErrVersionConflict
		}

		for _, table := range []string{"level_progress", "achievements"} {
			q, args := builder().Delete(table).Where(entsql.EQ("user_id", p.UserID)).Query()
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := writeChildren(ctx, tx, p); err != nil {
			return err
		}
		p.Version++
		return nil
	})
}

func writeChildren(ctx context.Context, tx *sql.Tx, p *profile.Profile) error {
	if len(p.Levels) > 0 {
		ins := builder().Insert("level_progress").
			Columns("user_id", "topic_id", "level", "lessons_completed", "correct_answers")
		for _, k := range p.SortedLevelKeys() {
			c := p.Levels[k]
			ins.Values(p.UserID, k.TopicID, k.Level, c.LessonsCompleted, c.CorrectAnswers)
		}
		q, args := ins.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert level progress: %w", err)
		}
	}

	if len(p.Achievements) > 0 {
		ins := builder().Insert("achievements").
			Columns("user_id", "achievement_id", "name", "description", "icon", "color", "earned_at")
		for _, a := range p.Achievements {
			ins.Values(p.UserID, a.ID, a.Name, a.Description, a.Icon, a.Color, a.EarnedAt)
		}
		q, args := ins.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert achievements: %w", err)
		}
	}
	return nil
}

func profileExists(ctx context.Context, q queryer, userID string) (bool, error) {
	query, args := builder().Select(entsql.Count("*")).
		From(entsql.Table("profiles")).
		Where(entsql.EQ("user_id", userID)).
		Query()
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	return n > 0, nil
}

func encodeLegacy(m map[int]string) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = v
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode legacy levels: %w", err)
	}
	return string(b), nil
}

func decodeLegacy(s string) (map[int]string, error) {
	if s == "" {
		return nil, nil
	}
	var raw map[string]string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("decode legacy levels: %w", err)
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("decode legacy levels: level id %q", k)
		}
		out[n] = v
	}
	return out, nil
}

// timeNow is replaced in tests.
var timeNow = func() time.Time { return time.Now().UTC() }
