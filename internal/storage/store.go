package storage

import (
	"errors"

	"habitflow/pkg/habit"
)

// ErrNotFound is returned when a habit or reflection does not exist for the
// given user. Handlers surface it directly as a 404; it is never retried.
var ErrNotFound = errors.New("not found")

// Store is the event-store collaborator: habits and reflections are plain
// CRUD, completion events are append-only and readable by time range, and
// streak state supports an atomic per-(user, habit) read-modify-write.
type Store interface {
	CreateHabit(userID string, h habit.Habit) error
	GetHabitInfo(userID, habitID string) (habit.Habit, error)
	ListHabits(userID string, activeOnly bool) ([]habit.Habit, error)
	UpdateHabit(userID string, h habit.Habit) error
	DeleteHabit(userID, habitID string) error
	CountActiveHabits(userID string) (int, error)

	// AppendCompletion fails with ErrNotFound if the habit does not belong
	// to the user. Events are immutable once written.
	AppendCompletion(userID string, ev habit.CompletionEvent) error
	// ListEvents returns events with from <= CompletedAt < to, ascending.
	ListEvents(userID string, from, to int64) ([]habit.CompletionEvent, error)
	ListHabitEvents(userID, habitID string, from, to int64) ([]habit.CompletionEvent, error)

	GetStreak(userID, habitID string) (habit.StreakState, error)
	PutStreak(userID string, st habit.StreakState) error
	// UpdateStreak runs fn inside a single write transaction, serialized
	// against concurrent updates for the same key. Two simultaneous
	// same-day logs therefore cannot double-increment.
	UpdateStreak(userID, habitID string, fn func(habit.StreakState) habit.StreakState) (habit.StreakState, error)
	ListStreaks(userID string) ([]habit.StreakState, error)

	PutReflection(userID string, r habit.Reflection) error
	GetReflection(userID, reflectionID string) (habit.Reflection, error)
	ListReflections(userID string) ([]habit.Reflection, error)
	CountReflections(userID string) (int, error)

	Close() error
}
