// Package stats composes the streak calculator and the calendar aggregator
// into the read models the UI consumes. It holds no logic of its own beyond
// fan-out and shape assembly.
//
// Every read model degrades rather than fails: when a sub-fetch errors, its
// fields come back zeroed and a warning is logged, so one broken lookup never
// takes down the whole response.
package stats

import (
	"fmt"
	"math"
	"time"

	"habitflow/internal/calendar"
	"habitflow/internal/logger"
	"habitflow/internal/storage"
	"habitflow/internal/streak"
	"habitflow/pkg/habit"
)

type Facade struct {
	store storage.Store
	loc   *time.Location
}

func New(store storage.Store, loc *time.Location) *Facade {
	return &Facade{store: store, loc: loc}
}

// Dashboard builds the dashboard card: habit counts, today's completions,
// global streaks and the last-7-days completion-rate series.
//
// The global current streak is the maximum read-time-valid streak across
// active habits; the global longest is the maximum over all habits, inactive
// ones included.
func (f *Facade) Dashboard(userID string, now time.Time) habit.DashboardStats {
	var out habit.DashboardStats

	totalHabits, err := f.store.CountActiveHabits(userID)
	if err != nil {
		logger.Warn("Dashboard: active habit count unavailable", "user_id", userID, "error", err)
	}
	out.TotalHabits = totalHabits

	today := calendar.StartOfDay(now, f.loc)
	from := today.AddDate(0, 0, -6).Unix()
	to := today.AddDate(0, 0, 1).Unix()

	events, err := f.store.ListEvents(userID, from, to)
	if err != nil {
		logger.Warn("Dashboard: events unavailable", "user_id", userID, "error", err)
		events = nil
	}
	days := calendar.Aggregate(events, totalHabits, f.loc)
	out.CompletedToday = days[calendar.DayKey(now.Unix(), f.loc)].Completed

	out.WeeklyProgress = make([]int, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		pct := 0
		if totalHabits > 0 {
			completed := days[day.Format("2006-01-02")].Completed
			pct = int(math.Round(float64(completed) / float64(totalHabits) * 100))
		}
		out.WeeklyProgress = append(out.WeeklyProgress, pct)
	}

	out.CurrentStreak, out.LongestStreak = f.globalStreaks(userID, now)

	reflections, err := f.store.CountReflections(userID)
	if err != nil {
		logger.Warn("Dashboard: reflection count unavailable", "user_id", userID, "error", err)
	}
	out.TotalReflections = reflections

	return out
}

func (f *Facade) globalStreaks(userID string, now time.Time) (current, longest int) {
	streaks, err := f.store.ListStreaks(userID)
	if err != nil {
		logger.Warn("Dashboard: streaks unavailable", "user_id", userID, "error", err)
		return 0, 0
	}

	active := map[string]bool{}
	habits, err := f.store.ListHabits(userID, true)
	if err != nil {
		logger.Warn("Dashboard: habit list unavailable, treating all streaks as active",
			"user_id", userID, "error", err)
		active = nil
	} else {
		for _, h := range habits {
			active[h.ID] = true
		}
	}

	for _, st := range streaks {
		if active == nil || active[st.HabitID] {
			if v := streak.Valid(st, now, f.loc); v > current {
				current = v
			}
		}
		if st.LongestStreak > longest {
			longest = st.LongestStreak
		}
	}
	return current, longest
}

// MonthCalendar is the month-view read model: a sparse day map plus the
// roll-up over it. Missing days mean zero completions.
type MonthCalendar struct {
	Year        int                           `json:"year"`
	Month       int                           `json:"month"`
	TotalHabits int                           `json:"total_habits"`
	Days        map[string]habit.DayAggregate `json:"days"`
	Summary     habit.RangeSummary            `json:"summary"`
}

func (f *Facade) MonthCalendar(userID string, year int, month time.Month) (MonthCalendar, error) {
	from, to := calendar.MonthRange(year, month, f.loc)
	events, err := f.store.ListEvents(userID, from, to)
	if err != nil {
		return MonthCalendar{}, fmt.Errorf("listing events for %d-%02d: %w", year, month, err)
	}

	totalHabits, err := f.store.CountActiveHabits(userID)
	if err != nil {
		logger.Warn("MonthCalendar: active habit count unavailable", "user_id", userID, "error", err)
		totalHabits = 0
	}

	days := calendar.Aggregate(events, totalHabits, f.loc)
	return MonthCalendar{
		Year:        year,
		Month:       int(month),
		TotalHabits: totalHabits,
		Days:        days,
		Summary:     calendar.Rollup(days),
	}, nil
}

// DayEntry is one completed habit in the day drill-down, with whatever the
// user logged alongside it.
type DayEntry struct {
	HabitID    string     `json:"habit_id"`
	HabitName  string     `json:"habit_name,omitempty"`
	HabitIcon  string     `json:"habit_icon,omitempty"`
	Mood       habit.Mood `json:"mood,omitempty"`
	Reflection string     `json:"reflection,omitempty"`
	Note       string     `json:"note,omitempty"`
}

type DayDetail struct {
	Date        string             `json:"date"`
	TotalHabits int                `json:"total_habits"`
	Completed   int                `json:"completed"`
	Entries     []DayEntry         `json:"entries"`
	Reflections []habit.Reflection `json:"reflections"`
}

func (f *Facade) DayDetail(userID, date string) (DayDetail, error) {
	from, to, err := calendar.DayRange(date, f.loc)
	if err != nil {
		return DayDetail{}, err
	}

	events, err := f.store.ListEvents(userID, from, to)
	if err != nil {
		return DayDetail{}, fmt.Errorf("listing events for %s: %w", date, err)
	}

	detail := DayDetail{Date: date, Entries: []DayEntry{}, Reflections: []habit.Reflection{}}

	seen := map[string]bool{}
	for _, ev := range events {
		entry := DayEntry{
			HabitID:    ev.HabitID,
			Mood:       ev.Mood,
			Reflection: ev.Reflection,
			Note:       ev.Note,
		}
		if h, err := f.store.GetHabitInfo(userID, ev.HabitID); err == nil {
			entry.HabitName = h.Name
			entry.HabitIcon = h.Icon
		}
		detail.Entries = append(detail.Entries, entry)
		seen[ev.HabitID] = true
	}
	detail.Completed = len(seen)

	totalHabits, err := f.store.CountActiveHabits(userID)
	if err != nil {
		logger.Warn("DayDetail: active habit count unavailable", "user_id", userID, "error", err)
	}
	detail.TotalHabits = totalHabits

	reflections, err := f.store.ListReflections(userID)
	if err != nil {
		logger.Warn("DayDetail: reflections unavailable", "user_id", userID, "error", err)
		reflections = nil
	}
	for _, r := range reflections {
		if r.CreatedAt >= from && r.CreatedAt < to {
			detail.Reflections = append(detail.Reflections, r)
		}
	}

	return detail, nil
}
