package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LessonEvent records one confirmed lesson completion.
type LessonEvent struct {
	ent.Schema
}

func (LessonEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LessonEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").NotEmpty(),
		field.String("topic_id").NotEmpty(),
		field.Int("level").Range(1, 10),
		field.Bool("correct"),
		field.Int("lessons_completed").
			Default(0).
			Comment("Level counter after this lesson"),
		field.Int("correct_answers").
			Default(0),
		field.Int("points_awarded").
			Default(0),
		field.Bool("level_completed").
			Default(false),
		field.String("medal").
			Default("").
			Comment("bronze, silver or gold when the lesson completed the level"),
		field.String("achievements").
			Default("").
			Comment("Comma-separated ids awarded by this lesson"),
	}
}

func (LessonEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
	}
}
