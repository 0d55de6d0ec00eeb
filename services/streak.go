package services

import "time"

// startOfDay truncates a timestamp to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}

// NextStreak derives the new (current, max) streak from the last study date.
// Called once per XP-granting event; effective at most once per calendar day.
//
// The three-way branch matters: "same day" must stay a no-op so a second
// completion on the same day neither increments nor resets the streak.
func NextStreak(lastStudyDate *time.Time, today time.Time, current, max int) (int, int) {
	yesterday := startOfDay(today).AddDate(0, 0, -1)

	switch {
	case lastStudyDate == nil:
		current = 1
	case sameDay(*lastStudyDate, yesterday):
		current++
	case sameDay(*lastStudyDate, today):
		// Already studied today; streak unchanged.
	default:
		// Gap of two or more days breaks the run.
		current = 1
	}

	if current > max {
		max = current
	}
	return current, max
}
