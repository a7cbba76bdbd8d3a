package server

import (
	"habitflow/pkg/habit"
)

// HabitWithState is a habit list entry decorated with its streak record.
type HabitWithState struct {
	habit.Habit
	Streak habit.StreakState `json:"streak"`
}

type HabitListResponse struct {
	Habits []HabitWithState `json:"habits"`
}

type TodayProgressResponse struct {
	Completed []string `json:"completed"`
	Total     int      `json:"total"`
}

type LogCompletionResponse struct {
	Event  habit.CompletionEvent `json:"event"`
	Streak habit.StreakState     `json:"streak"`
}

type HabitLogsResponse struct {
	HabitID string                  `json:"habit_id"`
	Entries []habit.CompletionEvent `json:"entries"`
}

type HabitSummaryResponse struct {
	HabitID      string             `json:"habit_id"`
	HabitSummary habit.HabitSummary `json:"habit_summary"`
}

type ReflectionListResponse struct {
	Reflections []habit.Reflection `json:"reflections"`
}
