package rewards

import (
	"testing"

	"github.com/abhisek/ecoquest/internal/profile"
)

func TestForAnswer(t *testing.T) {
	if got := ForAnswer(true); got != 2 {
		t.Errorf("ForAnswer(true) = %d, want 2", got)
	}
	if got := ForAnswer(false); got != 1 {
		t.Errorf("ForAnswer(false) = %d, want 1", got)
	}
}

func TestAddPoints(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{"add", 10, 2, 12},
		{"past max points", 999, 5, 1004},
		{"subtract", 10, -3, 7},
		{"floor at zero", 1, -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &profile.Profile{EcoPoints: tt.start, MaxPoints: profile.DefaultMaxPoints}
			if got := AddPoints(p, tt.delta); got != tt.want {
				t.Errorf("AddPoints = %d, want %d", got, tt.want)
			}
			if p.EcoPoints != tt.want {
				t.Errorf("EcoPoints = %d, want %d", p.EcoPoints, tt.want)
			}
		})
	}
}
