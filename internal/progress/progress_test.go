package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/medals"
	"github.com/abhisek/ecoquest/internal/profile"
)

func newProfile() *profile.Profile {
	return profile.New("u1", "Ada", "", profile.DateOf(time.Now()), time.Now())
}

func TestValidate(t *testing.T) {
	if err := Validate("e-waste", 1); err != nil {
		t.Errorf("valid topic/level: %v", err)
	}
	if err := Validate("ocean", 1); !errors.Is(err, profile.ErrUnknownTopic) {
		t.Errorf("unknown topic: got %v", err)
	}
	for _, lvl := range []int{0, 11, -1} {
		if err := Validate("e-waste", lvl); !errors.Is(err, profile.ErrInvalidLevel) {
			t.Errorf("level %d: got %v", lvl, err)
		}
	}
}

func TestDefaultsToZero(t *testing.T) {
	p := &profile.Profile{}
	if LessonProgress(p, "e-waste", 1) != 0 || CorrectAnswers(p, "e-waste", 1) != 0 {
		t.Error("absent level should read as 0/0")
	}
	if LevelStatus(p, "e-waste", 1) != Unlocked {
		t.Error("level 1 is never locked")
	}
	if LevelStatus(p, "e-waste", 2) != Locked {
		t.Error("level 2 should be locked on an empty profile")
	}
}

func TestLevelStatus(t *testing.T) {
	p := newProfile()
	p.SetCounters("e-waste", 1, profile.LevelCounters{LessonsCompleted: 5, CorrectAnswers: 5})
	p.SetCounters("e-waste", 3, profile.LevelCounters{LessonsCompleted: 2})

	tests := []struct {
		level int
		want  Status
	}{
		{1, Completed},
		{2, Unlocked}, // previous completed
		{3, Unlocked}, // has progress
		{4, Locked},
		{10, Locked},
	}
	for _, tt := range tests {
		if got := LevelStatus(p, "e-waste", tt.level); got != tt.want {
			t.Errorf("level %d: status = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestRequireUnlocked(t *testing.T) {
	p := newProfile()
	p.SetCounters("e-waste", 1, profile.LevelCounters{LessonsCompleted: 5})

	for _, lvl := range []int{1, 2} {
		if err := RequireUnlocked(p, "e-waste", lvl); err != nil {
			t.Errorf("level %d: %v", lvl, err)
		}
	}
	if err := RequireUnlocked(p, "e-waste", 3); !errors.Is(err, profile.ErrLevelLocked) {
		t.Errorf("level 3: got %v", err)
	}
	if err := RequireUnlocked(p, "temperature-change", 2); !errors.Is(err, profile.ErrLevelLocked) {
		t.Errorf("other topic: got %v", err)
	}
}

func TestCompleteLessonClamps(t *testing.T) {
	p := newProfile()
	prev := profile.LevelCounters{}
	for i := 0; i < 12; i++ {
		res := CompleteLesson(p, "e-waste", 1, true)
		if res.After.LessonsCompleted > catalog.LessonsPerLevel || res.After.CorrectAnswers > catalog.LessonsPerLevel {
			t.Fatalf("iteration %d exceeded clamp: %+v", i, res.After)
		}
		if res.After.LessonsCompleted < prev.LessonsCompleted || res.After.CorrectAnswers < prev.CorrectAnswers {
			t.Fatalf("iteration %d decreased counters: %+v -> %+v", i, prev, res.After)
		}
		if res.After.CorrectAnswers > res.After.LessonsCompleted {
			t.Fatalf("iteration %d: correct answers exceed lessons: %+v", i, res.After)
		}
		prev = res.After
	}
}

func TestCompleteLessonFinishesLevel(t *testing.T) {
	p := newProfile()
	var res Result
	for i := 0; i < 5; i++ {
		res = CompleteLesson(p, "e-waste", 1, i < 3)
		if i < 4 && res.LevelCompleted {
			t.Fatalf("lesson %d should not complete the level", i+1)
		}
	}
	if !res.LevelCompleted || !res.NextLevelUnlocked {
		t.Fatalf("last lesson: %+v", res)
	}
	if res.After != (profile.LevelCounters{LessonsCompleted: 5, CorrectAnswers: 3}) {
		t.Errorf("counters = %+v", res.After)
	}
	if !p.HasEntry("e-waste", 2) || LevelStatus(p, "e-waste", 2) != Unlocked {
		t.Error("level 2 should be initialised and unlocked")
	}
}

func TestCompleteLessonOnCompletedLevel(t *testing.T) {
	p := newProfile()
	p.SetCounters("e-waste", 4, profile.LevelCounters{LessonsCompleted: 5, CorrectAnswers: 4})
	p.SetCounters("e-waste", 5, profile.LevelCounters{LessonsCompleted: 2, CorrectAnswers: 1})

	res := CompleteLesson(p, "e-waste", 4, true)
	if res.LevelCompleted || res.NextLevelUnlocked {
		t.Errorf("replay should be a no-op on the unlock side: %+v", res)
	}
	if res.After.LessonsCompleted != 5 {
		t.Errorf("lessons = %d", res.After.LessonsCompleted)
	}
	if got := p.Counters("e-waste", 5); got.LessonsCompleted != 2 {
		t.Errorf("next level progress changed: %+v", got)
	}
}

func TestReplayDoesNotInitialiseNextLevel(t *testing.T) {
	p := newProfile()
	p.SetCounters("e-waste", 1, profile.LevelCounters{LessonsCompleted: 5, CorrectAnswers: 4})

	res := CompleteLesson(p, "e-waste", 1, true)
	if res.LevelCompleted || res.NextLevelUnlocked {
		t.Errorf("replay reported an unlock: %+v", res)
	}
	if p.HasEntry("e-waste", 2) {
		t.Error("replay created a level 2 entry")
	}
	if res.After.CorrectAnswers != 5 {
		t.Errorf("correct answers = %d, want 5", res.After.CorrectAnswers)
	}
}

func TestCompleteLessonLastLevel(t *testing.T) {
	p := newProfile()
	p.SetCounters("e-waste", 10, profile.LevelCounters{LessonsCompleted: 4})
	res := CompleteLesson(p, "e-waste", 10, false)
	if !res.LevelCompleted || res.NextLevelUnlocked {
		t.Errorf("level 10: %+v", res)
	}
	if p.HasEntry("e-waste", 11) {
		t.Error("no level 11 should be created")
	}
}

func TestTopicStats(t *testing.T) {
	p := newProfile()
	p.SetCounters("e-waste", 1, profile.LevelCounters{LessonsCompleted: 5})
	p.SetCounters("e-waste", 2, profile.LevelCounters{LessonsCompleted: 5})
	p.SetCounters("e-waste", 3, profile.LevelCounters{LessonsCompleted: 3})
	p.SetCounters("temperature-change", 1, profile.LevelCounters{LessonsCompleted: 5})

	s := TopicStats(p, "e-waste")
	if s.Completed != 13 || s.Total != 50 || s.LevelsCompleted != 2 {
		t.Errorf("stats = %+v", s)
	}
	if s.Percentage != 26 {
		t.Errorf("percentage = %v, want 26", s.Percentage)
	}
}

func TestOverview(t *testing.T) {
	p := newProfile()
	p.SetCounters("e-waste", 1, profile.LevelCounters{LessonsCompleted: 5, CorrectAnswers: 4})
	topic, _ := catalog.Lookup("e-waste")

	rows := Overview(p, topic)
	if len(rows) != catalog.LevelsPerTopic {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Status != Completed || rows[0].Medal != medals.Silver {
		t.Errorf("row 1 = %+v", rows[0])
	}
	if rows[1].Status != Unlocked || rows[1].Medal != medals.None {
		t.Errorf("row 2 = %+v", rows[1])
	}
	if rows[2].Status != Locked {
		t.Errorf("row 3 = %+v", rows[2])
	}
}
