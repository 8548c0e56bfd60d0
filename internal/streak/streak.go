// Package streak computes consecutive-day login streaks.
package streak

import "github.com/abhisek/ecoquest/internal/profile"

// Compute returns the streak after a login on today, given the last recorded
// login date and the streak stored with it. persist is false when the login
// is on the same day as the last one, so nothing needs to be written.
func Compute(last profile.Date, previous int, today profile.Date) (streak int, persist bool) {
	if last.IsZero() {
		return 1, true
	}

	switch today.DaysSince(last) {
	case 1:
		streak = previous + 1
	case 0:
		streak = previous
		if streak <= 0 {
			streak = 1
		}
	default:
		// Gap of two or more days, or a last login in the future.
		streak = 1
	}
	return streak, last != today
}

// Apply updates the profile's streak and last login date for a login on
// today. It reports whether the profile changed.
func Apply(p *profile.Profile, today profile.Date) bool {
	s, persist := Compute(p.LastLoginDate, p.Streak, today)
	if !persist {
		return false
	}
	p.Streak = s
	p.LastLoginDate = today
	return true
}
