package scheduler

import "alcyxob/fitness-scheduler/internal/domain"

// weeklyQuota maps an activity level to the number of workouts per week.
var weeklyQuota = map[domain.ActivityLevel]int{
	domain.ActivitySedentary:  1,
	domain.ActivityLight:      2,
	domain.ActivityModerate:   4,
	domain.ActivityActive:     6,
	domain.ActivityVeryActive: 7,
}

// WorkoutDays returns how many workouts a week needs for the given activity
// level. Unknown levels yield 0, which callers treat as "no schedule needed".
func WorkoutDays(level string) int {
	return weeklyQuota[domain.ActivityLevel(level)]
}
