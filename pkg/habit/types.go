package habit

// Mood captures how the user felt when logging a completion.
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodNeutral  Mood = "neutral"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

func (m Mood) Valid() bool {
	switch m {
	case "", MoodGreat, MoodGood, MoodNeutral, MoodBad, MoodTerrible:
		return true
	}
	return false
}

type Habit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   int64  `json:"created_at"`
}

// CompletionEvent is one immutable "I did this habit" record. Timestamps are
// unix seconds; streak and calendar logic only care about the calendar day,
// but the exact instant is kept for audit.
type CompletionEvent struct {
	ID          string `json:"id"`
	HabitID     string `json:"habit_id"`
	UserID      string `json:"user_id"`
	CompletedAt int64  `json:"completed_at"`
	Mood        Mood   `json:"mood,omitempty"`
	Reflection  string `json:"reflection,omitempty"`
	Note        string `json:"note,omitempty"`
}

// StreakState is the stored per-habit streak. LastCompletedAt == 0 means the
// habit has never been completed. LongestStreak >= CurrentStreak always holds.
type StreakState struct {
	HabitID         string `json:"habit_id"`
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	LastCompletedAt int64  `json:"last_completed_at,omitempty"`
}

// DayAggregate summarises one calendar date. Completed counts distinct
// habits, so re-logging the same habit twice in a day does not double count.
// Completed may exceed Total when a habit was deactivated after being logged.
type DayAggregate struct {
	Date      string   `json:"date"`
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	HabitIDs  []string `json:"habit_ids"`
}

// RangeSummary is a week or month roll-up over a set of DayAggregates.
type RangeSummary struct {
	TotalCompleted    int     `json:"total_completed"`
	PerfectDays       int     `json:"perfect_days"`
	AvgCompletionRate float64 `json:"avg_completion_rate"`
}

// Reflection is a standalone journal entry, optionally tied to a habit.
type Reflection struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id,omitempty"`
	Content   string `json:"content"`
	Mood      Mood   `json:"mood,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// DashboardStats is the composite read model behind the dashboard card.
type DashboardStats struct {
	TotalHabits      int   `json:"total_habits"`
	CompletedToday   int   `json:"completed_today"`
	CurrentStreak    int   `json:"current_streak"`
	LongestStreak    int   `json:"longest_streak"`
	TotalReflections int   `json:"total_reflections"`
	WeeklyProgress   []int `json:"weekly_progress"`
}

// HabitSummary is the per-habit drill-down served by the summary endpoint.
type HabitSummary struct {
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	FirstLogged   int64  `json:"first_logged"`
	TotalDaysDone int    `json:"total_days_done"`
	BestMonth     int    `json:"best_month"`
	ThisMonth     int    `json:"this_month"`
	LastWrite     int64  `json:"last_write"`
}
