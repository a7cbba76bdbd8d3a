package server

import (
	"time"

	"habitflow/internal/calendar"
	"habitflow/internal/streak"
	"habitflow/pkg/habit"
)

// computeSummary derives the per-habit drill-down from the habit's full event
// history. Streaks come from streak.Recompute rather than the stored state,
// so backfilled events are credited here even though the incremental update
// path ignores them.
func (s *Server) computeSummary(userID string, h habit.Habit, now time.Time) (habit.HabitSummary, error) {
	events, err := s.store.ListHabitEvents(userID, h.ID, 0, maxTS)
	if err != nil {
		return habit.HabitSummary{}, err
	}

	current, longest := streak.Recompute(events, now, s.loc)

	var firstLogged int64
	uniqDays := map[string]struct{}{}
	monthCounts := map[string]map[string]struct{}{}
	for i := range events {
		ts := events[i].CompletedAt
		if firstLogged == 0 || ts < firstLogged {
			firstLogged = ts
		}
		day := calendar.DayKey(ts, s.loc)
		uniqDays[day] = struct{}{}
		month := day[:7]
		if monthCounts[month] == nil {
			monthCounts[month] = map[string]struct{}{}
		}
		monthCounts[month][day] = struct{}{}
	}

	bestMonth := 0
	for _, days := range monthCounts {
		if len(days) > bestMonth {
			bestMonth = len(days)
		}
	}
	thisMonth := len(monthCounts[now.In(s.loc).Format("2006-01")])

	return habit.HabitSummary{
		Name:          h.Name,
		CurrentStreak: current,
		LongestStreak: longest,
		FirstLogged:   firstLogged,
		TotalDaysDone: len(uniqDays),
		BestMonth:     bestMonth,
		ThisMonth:     thisMonth,
		LastWrite:     now.Unix(),
	}, nil
}
