package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions for ent's schema migrator. Queries are built with the
// ent SQL builder in the repo files.

var (
	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       "users",
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	profilesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "eco_points", Type: field.TypeInt, Default: 0},
		{Name: "max_points", Type: field.TypeInt, Default: 1000},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "last_login_date", Type: field.TypeString, Default: ""},
		{Name: "legacy_levels", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "version", Type: field.TypeInt64, Default: 1},
	}
	profilesTable = &schema.Table{
		Name:       "profiles",
		Columns:    profilesColumns,
		PrimaryKey: []*schema.Column{profilesColumns[0]},
	}

	levelProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic_id", Type: field.TypeString},
		{Name: "level", Type: field.TypeInt},
		{Name: "lessons_completed", Type: field.TypeInt, Default: 0},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
	}
	levelProgressTable = &schema.Table{
		Name:       "level_progress",
		Columns:    levelProgressColumns,
		PrimaryKey: []*schema.Column{levelProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "levelprogress_user_id_topic_id_level",
				Unique:  true,
				Columns: []*schema.Column{levelProgressColumns[1], levelProgressColumns[2], levelProgressColumns[3]},
			},
		},
	}

	achievementsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "achievement_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "icon", Type: field.TypeString, Default: ""},
		{Name: "color", Type: field.TypeString, Default: ""},
		{Name: "earned_at", Type: field.TypeTime},
	}
	achievementsTable = &schema.Table{
		Name:       "achievements",
		Columns:    achievementsColumns,
		PrimaryKey: []*schema.Column{achievementsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "achievement_user_id_achievement_id",
				Unique:  true,
				Columns: []*schema.Column{achievementsColumns[1], achievementsColumns[2]},
			},
		},
	}

	lessonEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic_id", Type: field.TypeString},
		{Name: "level", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeBool},
		{Name: "lessons_completed", Type: field.TypeInt, Default: 0},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		{Name: "points_awarded", Type: field.TypeInt, Default: 0},
		{Name: "level_completed", Type: field.TypeBool, Default: false},
		{Name: "medal", Type: field.TypeString, Default: ""},
		{Name: "achievements", Type: field.TypeString, Default: ""},
	}
	lessonEventsTable = &schema.Table{
		Name:       "lesson_events",
		Columns:    lessonEventsColumns,
		PrimaryKey: []*schema.Column{lessonEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "lessonevent_user_id", Columns: []*schema.Column{lessonEventsColumns[3]}},
		},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{llmRequestEventsColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
		},
	}

	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "reason", Type: field.TypeString, Default: ""},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
	}
	snapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_user_id", Columns: []*schema.Column{snapshotsColumns[1]}},
		},
	}

	tables = []*schema.Table{
		usersTable,
		profilesTable,
		levelProgressTable,
		achievementsTable,
		lessonEventsTable,
		llmRequestEventsTable,
		snapshotsTable,
	}
)

// migrate creates or upgrades every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
