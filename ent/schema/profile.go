package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Profile is the scalar part of a learner's progress document. Level
// counters and achievements live in their own tables.
type Profile struct {
	ent.Schema
}

func (Profile) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").Immutable(),
		field.String("name").Default(""),
		field.String("email").Default(""),
		field.Int("eco_points").Default(0).NonNegative(),
		field.Int("max_points").Default(1000),
		field.Int("streak").Default(0).NonNegative(),
		field.String("last_login_date").
			Default("").
			Comment("YYYY-MM-DD, empty before the first login"),
		field.Text("legacy_levels").
			Default("").
			Comment("JSON map of the old single-track level statuses"),
		field.Time("created_at").Default(time.Now).Immutable(),
		field.Int64("version").
			Default(1).
			Comment("Optimistic concurrency token"),
	}
}

// LevelProgress holds the counters of one level of one topic.
type LevelProgress struct {
	ent.Schema
}

func (LevelProgress) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id"),
		field.String("topic_id"),
		field.Int("level").Range(1, 10),
		field.Int("lessons_completed").Default(0).Range(0, 5),
		field.Int("correct_answers").Default(0).Range(0, 5),
	}
}

func (LevelProgress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "topic_id", "level").Unique(),
	}
}

// Achievement is one earned achievement. Rows are never updated.
type Achievement struct {
	ent.Schema
}

func (Achievement) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id"),
		field.String("achievement_id"),
		field.String("name").Default(""),
		field.String("description").Default(""),
		field.String("icon").Default(""),
		field.String("color").Default(""),
		field.Time("earned_at"),
	}
}

func (Achievement) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "achievement_id").Unique(),
	}
}
