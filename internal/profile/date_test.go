package profile

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateDaysSince(t *testing.T) {
	tests := []struct {
		name    string
		today   string
		earlier string
		want    int
	}{
		{"same day", "2024-03-10", "2024-03-10", 0},
		{"yesterday", "2024-03-10", "2024-03-09", 1},
		{"across month", "2024-03-01", "2024-02-29", 1},
		{"across year", "2025-01-01", "2024-12-31", 1},
		{"week", "2024-03-10", "2024-03-03", 7},
		{"future", "2024-03-10", "2024-03-11", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today, _ := ParseDate(tt.today)
			earlier, _ := ParseDate(tt.earlier)
			if got := today.DaysSince(earlier); got != tt.want {
				t.Errorf("DaysSince = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDateOfDiscardsTime(t *testing.T) {
	late := time.Date(2024, 5, 6, 23, 59, 0, 0, time.UTC)
	early := time.Date(2024, 5, 6, 0, 1, 0, 0, time.UTC)
	if DateOf(late) != DateOf(early) {
		t.Errorf("DateOf should ignore time of day")
	}
	if got := DateOf(late).String(); got != "2024-05-06" {
		t.Errorf("String = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	if err != nil || !d.IsZero() {
		t.Fatalf("empty string: got %v, %v", d, err)
	}
	if _, err := ParseDate("10/03/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	d, err = ParseDate("2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	if d.AddDays(1).String() != "2024-03-01" {
		t.Errorf("AddDays(1) = %s", d.AddDays(1))
	}
}

func TestDateJSON(t *testing.T) {
	type wrap struct {
		D Date `json:"d"`
	}
	b, err := json.Marshal(wrap{D: Date{Year: 2024, Month: time.July, Day: 4}})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"d":"2024-07-04"}` {
		t.Errorf("marshal = %s", b)
	}

	var w wrap
	if err := json.Unmarshal([]byte(`{"d":""}`), &w); err != nil {
		t.Fatal(err)
	}
	if !w.D.IsZero() {
		t.Errorf("empty date should decode to zero, got %v", w.D)
	}
}
