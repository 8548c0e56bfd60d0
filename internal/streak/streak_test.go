package streak

import (
	"testing"
	"time"

	"github.com/abhisek/ecoquest/internal/profile"
)

func day(s string) profile.Date {
	d, err := profile.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		last        profile.Date
		previous    int
		today       profile.Date
		wantStreak  int
		wantPersist bool
	}{
		{"first login", profile.Date{}, 0, day("2024-03-10"), 1, true},
		{"consecutive day", day("2024-03-09"), 4, day("2024-03-10"), 5, true},
		{"same day", day("2024-03-10"), 4, day("2024-03-10"), 4, false},
		{"same day zero streak", day("2024-03-10"), 0, day("2024-03-10"), 1, false},
		{"two day gap", day("2024-03-08"), 9, day("2024-03-10"), 1, true},
		{"long gap", day("2023-01-01"), 30, day("2024-03-10"), 1, true},
		{"clock skew", day("2024-03-11"), 6, day("2024-03-10"), 1, true},
		{"month boundary", day("2024-02-29"), 2, day("2024-03-01"), 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, persist := Compute(tt.last, tt.previous, tt.today)
			if got != tt.wantStreak {
				t.Errorf("streak = %d, want %d", got, tt.wantStreak)
			}
			if persist != tt.wantPersist {
				t.Errorf("persist = %v, want %v", persist, tt.wantPersist)
			}
		})
	}
}

func TestComputeBreakIgnoresPrevious(t *testing.T) {
	for prev := 0; prev <= 100; prev += 25 {
		if got, _ := Compute(day("2024-03-01"), prev, day("2024-03-10")); got != 1 {
			t.Errorf("previous=%d: streak = %d, want 1", prev, got)
		}
	}
}

func TestApplySameDayIsIdempotent(t *testing.T) {
	p := profile.New("u1", "Ada", "", day("2024-03-09"), time.Now())
	p.Streak = 4

	if !Apply(p, day("2024-03-10")) {
		t.Fatal("first login of the day should change the profile")
	}
	if p.Streak != 5 || p.LastLoginDate != day("2024-03-10") {
		t.Fatalf("after first login: streak=%d last=%s", p.Streak, p.LastLoginDate)
	}

	if Apply(p, day("2024-03-10")) {
		t.Error("second login on the same day should not change the profile")
	}
	if p.Streak != 5 {
		t.Errorf("streak after second login = %d, want 5", p.Streak)
	}
}
