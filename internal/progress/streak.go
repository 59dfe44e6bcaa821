package progress

import "time"

// dateOnly truncates a time to its local calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole calendar days from a to b. Both dates
// are re-anchored to UTC midnight before subtracting, so a DST
// transition between them (a 23- or 25-hour local day) cannot shift
// the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// nextStreak applies the consecutive-calendar-day rule. Activity on the
// same day leaves the streak alone, activity exactly one day after the
// last extends it, and anything else (including no prior activity)
// restarts at 1.
func nextStreak(current int, last, today time.Time) int {
	if last.IsZero() {
		return 1
	}
	switch daysBetween(last, today) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

// BaseMilestone is the first streak length worth celebrating.
const BaseMilestone = 5

// NextMilestone returns the next streak milestone above the current
// streak length: 5, 10, 15, 20, then every 5 days.
func NextMilestone(current int) int {
	milestones := []int{5, 10, 15, 20}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 20, celebrate every 5.
	return ((current / 5) + 1) * 5
}

// IsMilestone reports whether a streak length is a celebration point.
func IsMilestone(streak int) bool {
	if streak < BaseMilestone {
		return false
	}
	return streak%5 == 0
}
