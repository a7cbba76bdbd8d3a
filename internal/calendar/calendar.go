// Package calendar turns completion events into per-day summaries and
// week/month roll-ups. Everything here is a pure function of its inputs; no
// aggregate state is stored anywhere.
package calendar

import (
	"fmt"
	"slices"
	"time"

	"habitflow/pkg/habit"
)

const dayKeyLayout = "2006-01-02"

// DayKey formats a timestamp as the YYYY-MM-DD key for the date it falls on
// in loc.
func DayKey(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format(dayKeyLayout)
}

// Aggregate folds events into a sparse map from day key to DayAggregate.
// Habit IDs are deduplicated per day, so logging the same habit twice on one
// date counts once. Dates with no events are absent from the map; callers
// treat a missing key as zero completions.
//
// totalActive is today's active-habit count applied uniformly to every day in
// the range. Historical per-day counts are not reconstructed, so percentages
// for days before a habit existed (or after one was deactivated) are
// approximate.
func Aggregate(events []habit.CompletionEvent, totalActive int, loc *time.Location) map[string]habit.DayAggregate {
	byDay := make(map[string]map[string]struct{})
	for i := range events {
		key := DayKey(events[i].CompletedAt, loc)
		set, ok := byDay[key]
		if !ok {
			set = make(map[string]struct{})
			byDay[key] = set
		}
		set[events[i].HabitID] = struct{}{}
	}

	out := make(map[string]habit.DayAggregate, len(byDay))
	for key, set := range byDay {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		out[key] = habit.DayAggregate{
			Date:      key,
			Completed: len(ids),
			Total:     totalActive,
			HabitIDs:  ids,
		}
	}
	return out
}

// Rollup reduces a day map to a range summary. A perfect day is one where
// every active habit was completed; AvgCompletionRate is computed only over
// days that have data, and is 0 for an empty map.
func Rollup(days map[string]habit.DayAggregate) habit.RangeSummary {
	var sum habit.RangeSummary
	possible := 0
	for _, d := range days {
		sum.TotalCompleted += d.Completed
		possible += d.Total
		if d.Total > 0 && d.Completed >= d.Total {
			sum.PerfectDays++
		}
	}
	if possible > 0 {
		sum.AvgCompletionRate = float64(sum.TotalCompleted) / float64(possible)
	}
	return sum
}

// MonthRange returns the [from, to) unix-second window covering one calendar
// month in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (from, to int64) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start.Unix(), start.AddDate(0, 1, 0).Unix()
}

// DayRange parses a YYYY-MM-DD key and returns its [from, to) window in loc.
func DayRange(date string, loc *time.Location) (from, to int64, err error) {
	start, err := time.ParseInLocation(dayKeyLayout, date, loc)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return start.Unix(), start.AddDate(0, 0, 1).Unix(), nil
}

// StartOfDay truncates t to midnight of its calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
