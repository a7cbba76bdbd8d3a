// Package bolt implements storage.Store on a single bbolt file.
//
// Layout: users/<user_id>/{habits,events,streaks,reflections}. Events and
// reflections are keyed by zero-padded unix timestamp plus ID, so a cursor
// scan over a key range is a time-range query in ascending order. bbolt runs
// one write transaction at a time, which gives UpdateStreak its serializable
// per-key read-modify-write for free.
package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"habitflow/internal/storage"
	"habitflow/pkg/habit"
)

const rootBucket = "users"

var (
	habitsBucket      = []byte("habits")
	eventsBucket      = []byte("events")
	streaksBucket     = []byte("streaks")
	reflectionsBucket = []byte("reflections")
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(rootBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) userBucket(tx *bbolt.Tx, userID string, sub []byte) (*bbolt.Bucket, error) {
	users := tx.Bucket([]byte(rootBucket))
	user, err := users.CreateBucketIfNotExists([]byte(userID))
	if err != nil {
		return nil, err
	}
	return user.CreateBucketIfNotExists(sub)
}

// viewUserBucket is the read-only variant; returns nil if the user or
// sub-bucket has never been written.
func viewUserBucket(tx *bbolt.Tx, userID string, sub []byte) *bbolt.Bucket {
	user := tx.Bucket([]byte(rootBucket)).Bucket([]byte(userID))
	if user == nil {
		return nil
	}
	return user.Bucket(sub)
}

func tsKey(ts int64, id string) []byte {
	return fmt.Appendf(nil, "%020d/%s", ts, id)
}

func (s *Store) CreateHabit(userID string, h habit.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		habits, err := s.userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		if err := habits.Put([]byte(h.ID), val); err != nil {
			return err
		}
		// A habit starts with a zeroed streak record.
		streaks, err := s.userBucket(tx, userID, streaksBucket)
		if err != nil {
			return err
		}
		st, err := json.Marshal(habit.StreakState{HabitID: h.ID})
		if err != nil {
			return err
		}
		return streaks.Put([]byte(h.ID), st)
	})
}

func (s *Store) GetHabitInfo(userID, habitID string) (habit.Habit, error) {
	var h habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		habits := viewUserBucket(tx, userID, habitsBucket)
		if habits == nil {
			return storage.ErrNotFound
		}
		val := habits.Get([]byte(habitID))
		if val == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(val, &h)
	})
	return h, err
}

func (s *Store) ListHabits(userID string, activeOnly bool) ([]habit.Habit, error) {
	out := []habit.Habit{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		habits := viewUserBucket(tx, userID, habitsBucket)
		if habits == nil {
			return nil
		}
		return habits.ForEach(func(_, v []byte) error {
			var h habit.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			if activeOnly && !h.Active {
				return nil
			}
			out = append(out, h)
			return nil
		})
	})
	return out, err
}

func (s *Store) UpdateHabit(userID string, h habit.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		habits, err := s.userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if habits.Get([]byte(h.ID)) == nil {
			return storage.ErrNotFound
		}
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		return habits.Put([]byte(h.ID), val)
	})
}

// DeleteHabit removes the habit, its streak record and all of its events.
func (s *Store) DeleteHabit(userID, habitID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		habits, err := s.userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if habits.Get([]byte(habitID)) == nil {
			return storage.ErrNotFound
		}
		if err := habits.Delete([]byte(habitID)); err != nil {
			return err
		}
		streaks, err := s.userBucket(tx, userID, streaksBucket)
		if err != nil {
			return err
		}
		if err := streaks.Delete([]byte(habitID)); err != nil {
			return err
		}
		events, err := s.userBucket(tx, userID, eventsBucket)
		if err != nil {
			return err
		}
		c := events.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var ev habit.CompletionEvent
			if err := json.Unmarshal(v, &ev); err != nil {
				return err
			}
			if ev.HabitID == habitID {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) CountActiveHabits(userID string) (int, error) {
	habits, err := s.ListHabits(userID, true)
	if err != nil {
		return 0, err
	}
	return len(habits), nil
}

func (s *Store) AppendCompletion(userID string, ev habit.CompletionEvent) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		habits, err := s.userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if habits.Get([]byte(ev.HabitID)) == nil {
			return storage.ErrNotFound
		}
		events, err := s.userBucket(tx, userID, eventsBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		return events.Put(tsKey(ev.CompletedAt, ev.ID), val)
	})
}

func (s *Store) ListEvents(userID string, from, to int64) ([]habit.CompletionEvent, error) {
	return s.listEvents(userID, "", from, to)
}

func (s *Store) ListHabitEvents(userID, habitID string, from, to int64) ([]habit.CompletionEvent, error) {
	return s.listEvents(userID, habitID, from, to)
}

func (s *Store) listEvents(userID, habitID string, from, to int64) ([]habit.CompletionEvent, error) {
	out := []habit.CompletionEvent{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		events := viewUserBucket(tx, userID, eventsBucket)
		if events == nil {
			return nil
		}
		c := events.Cursor()
		start := fmt.Appendf(nil, "%020d", from)
		end := fmt.Appendf(nil, "%020d", to)
		for k, v := c.Seek(start); k != nil && bytes.Compare(k, end) < 0; k, v = c.Next() {
			var ev habit.CompletionEvent
			if err := json.Unmarshal(v, &ev); err != nil {
				return err
			}
			if habitID != "" && ev.HabitID != habitID {
				continue
			}
			out = append(out, ev)
		}
		return nil
	})
	return out, err
}

func (s *Store) GetStreak(userID, habitID string) (habit.StreakState, error) {
	var st habit.StreakState
	err := s.db.View(func(tx *bbolt.Tx) error {
		streaks := viewUserBucket(tx, userID, streaksBucket)
		if streaks == nil {
			return storage.ErrNotFound
		}
		val := streaks.Get([]byte(habitID))
		if val == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(val, &st)
	})
	return st, err
}

func (s *Store) PutStreak(userID string, st habit.StreakState) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		streaks, err := s.userBucket(tx, userID, streaksBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(st)
		if err != nil {
			return err
		}
		return streaks.Put([]byte(st.HabitID), val)
	})
}

func (s *Store) UpdateStreak(userID, habitID string, fn func(habit.StreakState) habit.StreakState) (habit.StreakState, error) {
	var updated habit.StreakState
	err := s.db.Update(func(tx *bbolt.Tx) error {
		streaks, err := s.userBucket(tx, userID, streaksBucket)
		if err != nil {
			return err
		}
		st := habit.StreakState{HabitID: habitID}
		if val := streaks.Get([]byte(habitID)); val != nil {
			if err := json.Unmarshal(val, &st); err != nil {
				return err
			}
		}
		updated = fn(st)
		val, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		return streaks.Put([]byte(habitID), val)
	})
	return updated, err
}

func (s *Store) ListStreaks(userID string) ([]habit.StreakState, error) {
	out := []habit.StreakState{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		streaks := viewUserBucket(tx, userID, streaksBucket)
		if streaks == nil {
			return nil
		}
		return streaks.ForEach(func(_, v []byte) error {
			var st habit.StreakState
			if err := json.Unmarshal(v, &st); err != nil {
				return err
			}
			out = append(out, st)
			return nil
		})
	})
	return out, err
}

func (s *Store) PutReflection(userID string, r habit.Reflection) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		reflections, err := s.userBucket(tx, userID, reflectionsBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return reflections.Put(tsKey(r.CreatedAt, r.ID), val)
	})
}

func (s *Store) GetReflection(userID, reflectionID string) (habit.Reflection, error) {
	var found habit.Reflection
	err := s.db.View(func(tx *bbolt.Tx) error {
		reflections := viewUserBucket(tx, userID, reflectionsBucket)
		if reflections == nil {
			return storage.ErrNotFound
		}
		c := reflections.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var r habit.Reflection
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			if r.ID == reflectionID {
				found = r
				return nil
			}
		}
		return storage.ErrNotFound
	})
	return found, err
}

func (s *Store) ListReflections(userID string) ([]habit.Reflection, error) {
	out := []habit.Reflection{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		reflections := viewUserBucket(tx, userID, reflectionsBucket)
		if reflections == nil {
			return nil
		}
		return reflections.ForEach(func(_, v []byte) error {
			var r habit.Reflection
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

func (s *Store) CountReflections(userID string) (int, error) {
	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		reflections := viewUserBucket(tx, userID, reflectionsBucket)
		if reflections == nil {
			return nil
		}
		count = reflections.Stats().KeyN
		return nil
	})
	return count, err
}

var _ storage.Store = (*Store)(nil)
