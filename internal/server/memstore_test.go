package server

import (
	"sort"
	"sync"

	"habitflow/internal/storage"
	"habitflow/pkg/habit"
)

// memStore is the in-memory storage.Store used by handler tests.
type memStore struct {
	mu          sync.RWMutex
	habits      map[string]map[string]habit.Habit
	events      map[string][]habit.CompletionEvent
	streaks     map[string]map[string]habit.StreakState
	reflections map[string][]habit.Reflection
}

func newMemStore() *memStore {
	return &memStore{
		habits:      map[string]map[string]habit.Habit{},
		events:      map[string][]habit.CompletionEvent{},
		streaks:     map[string]map[string]habit.StreakState{},
		reflections: map[string][]habit.Reflection{},
	}
}

func (m *memStore) CreateHabit(userID string, h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.habits[userID] == nil {
		m.habits[userID] = map[string]habit.Habit{}
		m.streaks[userID] = map[string]habit.StreakState{}
	}
	m.habits[userID][h.ID] = h
	m.streaks[userID][h.ID] = habit.StreakState{HabitID: h.ID}
	return nil
}

func (m *memStore) GetHabitInfo(userID, habitID string) (habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[userID][habitID]
	if !ok {
		return habit.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (m *memStore) ListHabits(userID string, activeOnly bool) ([]habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.Habit{}
	for _, h := range m.habits[userID] {
		if activeOnly && !h.Active {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateHabit(userID string, h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[userID][h.ID]; !ok {
		return storage.ErrNotFound
	}
	m.habits[userID][h.ID] = h
	return nil
}

func (m *memStore) DeleteHabit(userID, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[userID][habitID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.habits[userID], habitID)
	delete(m.streaks[userID], habitID)
	kept := m.events[userID][:0]
	for _, ev := range m.events[userID] {
		if ev.HabitID != habitID {
			kept = append(kept, ev)
		}
	}
	m.events[userID] = kept
	return nil
}

func (m *memStore) CountActiveHabits(userID string) (int, error) {
	habits, err := m.ListHabits(userID, true)
	return len(habits), err
}

func (m *memStore) AppendCompletion(userID string, ev habit.CompletionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[userID][ev.HabitID]; !ok {
		return storage.ErrNotFound
	}
	m.events[userID] = append(m.events[userID], ev)
	return nil
}

func (m *memStore) ListEvents(userID string, from, to int64) ([]habit.CompletionEvent, error) {
	return m.listEvents(userID, "", from, to)
}

func (m *memStore) ListHabitEvents(userID, habitID string, from, to int64) ([]habit.CompletionEvent, error) {
	return m.listEvents(userID, habitID, from, to)
}

func (m *memStore) listEvents(userID, habitID string, from, to int64) ([]habit.CompletionEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.CompletionEvent{}
	for _, ev := range m.events[userID] {
		if ev.CompletedAt < from || ev.CompletedAt >= to {
			continue
		}
		if habitID != "" && ev.HabitID != habitID {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt < out[j].CompletedAt })
	return out, nil
}

func (m *memStore) GetStreak(userID, habitID string) (habit.StreakState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.streaks[userID][habitID]
	if !ok {
		return habit.StreakState{}, storage.ErrNotFound
	}
	return st, nil
}

func (m *memStore) PutStreak(userID string, st habit.StreakState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streaks[userID] == nil {
		m.streaks[userID] = map[string]habit.StreakState{}
	}
	m.streaks[userID][st.HabitID] = st
	return nil
}

func (m *memStore) UpdateStreak(userID, habitID string, fn func(habit.StreakState) habit.StreakState) (habit.StreakState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streaks[userID] == nil {
		m.streaks[userID] = map[string]habit.StreakState{}
	}
	st := m.streaks[userID][habitID]
	st.HabitID = habitID
	st = fn(st)
	m.streaks[userID][habitID] = st
	return st, nil
}

func (m *memStore) ListStreaks(userID string) ([]habit.StreakState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.StreakState{}
	for _, st := range m.streaks[userID] {
		out = append(out, st)
	}
	return out, nil
}

func (m *memStore) PutReflection(userID string, r habit.Reflection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reflections[userID] = append(m.reflections[userID], r)
	return nil
}

func (m *memStore) GetReflection(userID, reflectionID string) (habit.Reflection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reflections[userID] {
		if r.ID == reflectionID {
			return r, nil
		}
	}
	return habit.Reflection{}, storage.ErrNotFound
}

func (m *memStore) ListReflections(userID string) ([]habit.Reflection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]habit.Reflection(nil), m.reflections[userID]...), nil
}

func (m *memStore) CountReflections(userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reflections[userID]), nil
}

func (m *memStore) Close() error { return nil }

var _ storage.Store = (*memStore)(nil)
