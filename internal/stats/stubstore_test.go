package stats

import (
	"errors"
	"sort"
	"sync"

	"habitflow/internal/storage"
	"habitflow/pkg/habit"
)

var errUnavailable = errors.New("backend unavailable")

// stubStore is an in-memory Store with per-call failure switches, used to
// exercise the facade's graceful-degradation paths.
type stubStore struct {
	mu          sync.Mutex
	habits      map[string]habit.Habit
	events      []habit.CompletionEvent
	streaks     map[string]habit.StreakState
	reflections []habit.Reflection

	failCount       bool
	failEvents      bool
	failStreaks     bool
	failReflections bool
}

func newStubStore() *stubStore {
	return &stubStore{
		habits:  map[string]habit.Habit{},
		streaks: map[string]habit.StreakState{},
	}
}

func (m *stubStore) CreateHabit(_ string, h habit.Habit) error {
	m.habits[h.ID] = h
	m.streaks[h.ID] = habit.StreakState{HabitID: h.ID}
	return nil
}

func (m *stubStore) GetHabitInfo(_, habitID string) (habit.Habit, error) {
	h, ok := m.habits[habitID]
	if !ok {
		return habit.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (m *stubStore) ListHabits(_ string, activeOnly bool) ([]habit.Habit, error) {
	out := []habit.Habit{}
	for _, h := range m.habits {
		if activeOnly && !h.Active {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (m *stubStore) UpdateHabit(_ string, h habit.Habit) error {
	m.habits[h.ID] = h
	return nil
}

func (m *stubStore) DeleteHabit(_, habitID string) error {
	delete(m.habits, habitID)
	delete(m.streaks, habitID)
	return nil
}

func (m *stubStore) CountActiveHabits(userID string) (int, error) {
	if m.failCount {
		return 0, errUnavailable
	}
	habits, _ := m.ListHabits(userID, true)
	return len(habits), nil
}

func (m *stubStore) AppendCompletion(_ string, ev habit.CompletionEvent) error {
	if _, ok := m.habits[ev.HabitID]; !ok {
		return storage.ErrNotFound
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *stubStore) ListEvents(_ string, from, to int64) ([]habit.CompletionEvent, error) {
	if m.failEvents {
		return nil, errUnavailable
	}
	out := []habit.CompletionEvent{}
	for _, ev := range m.events {
		if ev.CompletedAt >= from && ev.CompletedAt < to {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt < out[j].CompletedAt })
	return out, nil
}

func (m *stubStore) ListHabitEvents(userID, habitID string, from, to int64) ([]habit.CompletionEvent, error) {
	all, err := m.ListEvents(userID, from, to)
	if err != nil {
		return nil, err
	}
	out := []habit.CompletionEvent{}
	for _, ev := range all {
		if ev.HabitID == habitID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *stubStore) GetStreak(_, habitID string) (habit.StreakState, error) {
	st, ok := m.streaks[habitID]
	if !ok {
		return habit.StreakState{}, storage.ErrNotFound
	}
	return st, nil
}

func (m *stubStore) PutStreak(_ string, st habit.StreakState) error {
	m.streaks[st.HabitID] = st
	return nil
}

func (m *stubStore) UpdateStreak(_, habitID string, fn func(habit.StreakState) habit.StreakState) (habit.StreakState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.streaks[habitID]
	st.HabitID = habitID
	st = fn(st)
	m.streaks[habitID] = st
	return st, nil
}

func (m *stubStore) ListStreaks(_ string) ([]habit.StreakState, error) {
	if m.failStreaks {
		return nil, errUnavailable
	}
	out := []habit.StreakState{}
	for _, st := range m.streaks {
		out = append(out, st)
	}
	return out, nil
}

func (m *stubStore) PutReflection(_ string, r habit.Reflection) error {
	m.reflections = append(m.reflections, r)
	return nil
}

func (m *stubStore) GetReflection(_, reflectionID string) (habit.Reflection, error) {
	for _, r := range m.reflections {
		if r.ID == reflectionID {
			return r, nil
		}
	}
	return habit.Reflection{}, storage.ErrNotFound
}

func (m *stubStore) ListReflections(_ string) ([]habit.Reflection, error) {
	if m.failReflections {
		return nil, errUnavailable
	}
	return append([]habit.Reflection(nil), m.reflections...), nil
}

func (m *stubStore) CountReflections(userID string) (int, error) {
	if m.failReflections {
		return 0, errUnavailable
	}
	return len(m.reflections), nil
}

func (m *stubStore) Close() error { return nil }

var _ storage.Store = (*stubStore)(nil)
