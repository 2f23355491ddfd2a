package scheduler

import (
	"slices"

	"alcyxob/fitness-scheduler/internal/domain"
)

// noDay is the initial "last assigned day", far enough from 1..7 that the
// first pick is unconstrained.
const noDay = -1

// maxSpread is the most days of a week that can be used with no two adjacent.
const maxSpread = (domain.DaysPerWeek + 1) / 2

// assignDays picks up to n distinct days in 1..7, one per item, in placement
// order. Up to maxSpread items never land on adjacent days; beyond that the
// greedy rule of greedyDays applies.
func (s *Scheduler) assignDays(n int) []int {
	if n <= maxSpread {
		return s.spreadDays(n)
	}
	return s.greedyDays(n)
}

// spreadDays picks n pairwise non-adjacent days at random. A day is only a
// candidate if the items still to place fit on the days it leaves eligible.
func (s *Scheduler) spreadDays(n int) []int {
	eligible := make([]int, domain.DaysPerWeek)
	for i := range eligible {
		eligible[i] = i + 1
	}

	picked := make([]int, 0, n)
	for len(picked) < n {
		remaining := n - len(picked) - 1
		candidates := make([]int, 0, len(eligible))
		for _, d := range eligible {
			if maxNonAdjacent(nonConsecutive(eligible, d)) >= remaining {
				candidates = append(candidates, d)
			}
		}

		day := candidates[s.rnd.IntN(len(candidates))]
		picked = append(picked, day)
		eligible = nonConsecutive(eligible, day)
	}
	return picked
}

// greedyDays makes each pick avoid the day right before or after the previous
// pick while such a day is still free; once none is, any free day may be
// picked. Single pass, no backtracking.
func (s *Scheduler) greedyDays(n int) []int {
	available := make([]int, domain.DaysPerWeek)
	for i := range available {
		available[i] = i + 1
	}

	picked := make([]int, 0, min(n, domain.DaysPerWeek))
	last := noDay
	for len(picked) < n && len(available) > 0 {
		candidates := nonConsecutive(available, last)
		if len(candidates) == 0 {
			candidates = available
		}

		day := candidates[s.rnd.IntN(len(candidates))]
		available = slices.DeleteFunc(available, func(d int) bool { return d == day })
		last = day
		picked = append(picked, day)
	}
	return picked
}

// nonConsecutive drops last and its neighbours from days.
func nonConsecutive(days []int, last int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if abs(d-last) > 1 {
			out = append(out, d)
		}
	}
	return out
}

// maxNonAdjacent counts how many of the ascending days can be used with no
// two adjacent. Taking the earliest usable day is optimal on a line.
func maxNonAdjacent(days []int) int {
	count, last := 0, noDay
	for _, d := range days {
		if d-last > 1 {
			count++
			last = d
		}
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
