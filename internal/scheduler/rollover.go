package scheduler

import "time"

const day = 24 * time.Hour

// Rollover is the outcome of checking whether the active week has ended.
type Rollover struct {
	DaysElapsed int
	// Due is set once seven or more whole days passed since the week start.
	Due bool
	// Week and WeekStart describe the week that should be active now:
	// the next week starting at now when Due, the current one otherwise.
	Week      int
	WeekStart time.Time
}

// CheckRollover compares the week start with now. Clock skew that puts the
// week start in the future counts as zero days elapsed.
func CheckRollover(weekStart, now time.Time, currentWeek int) Rollover {
	elapsed := int(now.Sub(weekStart) / day)
	if elapsed < 0 {
		elapsed = 0
	}

	if elapsed >= 7 {
		return Rollover{
			DaysElapsed: elapsed,
			Due:         true,
			Week:        currentWeek + 1,
			WeekStart:   now,
		}
	}
	return Rollover{
		DaysElapsed: elapsed,
		Week:        currentWeek,
		WeekStart:   weekStart,
	}
}
