package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"habitflow/internal/calendar"
	"habitflow/internal/logger"
	"habitflow/internal/storage"
	"habitflow/internal/streak"
	"habitflow/pkg/habit"
	"habitflow/pkg/versioninfo"
)

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	info := versioninfo.VersionInfo{
		Version:   versioninfo.Version,
		BuildDate: versioninfo.BuildDate,
	}
	if err := writeJSON(w, http.StatusOK, info); err != nil {
		logger.Error("Failed to serialize version info response", "error", err)
		http.Error(w, `{"error":"failed to serialize version info"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	var h habit.Habit
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		logger.Warn("Invalid JSON in create habit request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := validateHabit(h); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}
	h.ID = uuid.NewString()
	h.Active = true
	h.CreatedAt = time.Now().Unix()

	logger.Info("Creating habit", "user_id", userID, "habit_id", h.ID, "habit_name", h.Name)
	if err := s.store.CreateHabit(userID, h); err != nil {
		logger.Error("Failed to create habit", "user_id", userID, "habit_name", h.Name, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}
	s.refreshActiveHabitsMetric(userID)

	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	logger.Debug("Listing habits", "user_id", userID)

	habits, err := s.store.ListHabits(userID, true)
	if err != nil {
		logger.Error("Failed to list habits", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	out := make([]HabitWithState, 0, len(habits))
	for _, h := range habits {
		entry := HabitWithState{Habit: h}
		st, err := s.store.GetStreak(userID, h.ID)
		if err != nil {
			logger.Warn("Missing streak record for habit", "user_id", userID, "habit_id", h.ID, "error", err)
			st = habit.StreakState{HabitID: h.ID}
		}
		entry.Streak = st
		out = append(out, entry)
	}

	logger.Debug("Listed habits successfully", "user_id", userID, "count", len(out))
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: out}); err != nil {
		logger.Error("Failed to serialize habit list response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getTodayProgress(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	total, err := s.store.CountActiveHabits(userID)
	if err != nil {
		logger.Error("Failed to count active habits", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	now := time.Now()
	from := calendar.StartOfDay(now, s.loc)
	events, err := s.store.ListEvents(userID, from.Unix(), from.AddDate(0, 0, 1).Unix())
	if err != nil {
		logger.Error("Failed to list today's events", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	seen := map[string]bool{}
	completed := []string{}
	for _, ev := range events {
		if !seen[ev.HabitID] {
			seen[ev.HabitID] = true
			completed = append(completed, ev.HabitID)
		}
	}

	resp := TodayProgressResponse{Completed: completed, Total: total}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize today progress response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromRequest(r)

	existing, err := s.store.GetHabitInfo(userID, habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
			return
		}
		logger.Error("Failed to load habit for update", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	var patch struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Icon        *string `json:"icon"`
		Active      *bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Warn("Invalid JSON in update habit request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Category != nil {
		existing.Category = *patch.Category
	}
	if patch.Icon != nil {
		existing.Icon = *patch.Icon
	}
	if patch.Active != nil {
		existing.Active = *patch.Active
	}
	if err := validateHabit(existing); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}

	logger.Info("Updating habit", "user_id", userID, "habit_id", habitID)
	if err := s.store.UpdateHabit(userID, existing); err != nil {
		logger.Error("Failed to update habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}
	s.refreshActiveHabitsMetric(userID)

	if err := writeJSON(w, http.StatusOK, existing); err != nil {
		logger.Error("Failed to serialize update habit response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromRequest(r)
	logger.Info("Deleting habit", "user_id", userID, "habit_id", habitID)

	err := s.store.DeleteHabit(userID, habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
			return
		}
		logger.Error("Failed to delete habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	logger.Info("Habit deleted successfully", "user_id", userID, "habit_id", habitID)
	s.refreshActiveHabitsMetric(userID)

	w.WriteHeader(http.StatusNoContent)
}

// logCompletion appends the event, then folds it into the stored streak via
// the store's atomic read-modify-write. Concurrent same-day logs for the same
// habit are serialized by that update and cannot double-increment.
func (s *Server) logCompletion(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromRequest(r)

	var body struct {
		TimeStamp  int64      `json:"timestamp"`
		Mood       habit.Mood `json:"mood"`
		Reflection string     `json:"reflection"`
		Note       string     `json:"note"`
	}
	// An empty body is fine: it means "done now, nothing to add".
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Invalid JSON in log completion request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if body.TimeStamp == 0 {
		body.TimeStamp = time.Now().Unix()
	}

	ev := habit.CompletionEvent{
		ID:          uuid.NewString(),
		HabitID:     habitID,
		UserID:      userID,
		CompletedAt: body.TimeStamp,
		Mood:        body.Mood,
		Reflection:  body.Reflection,
		Note:        body.Note,
	}
	if err := validateCompletion(ev); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}

	logger.Info("Logging completion", "user_id", userID, "habit_id", habitID, "timestamp", ev.CompletedAt)
	if err := s.store.AppendCompletion(userID, ev); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
			return
		}
		logger.Error("Failed to store completion", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	st, err := s.store.UpdateStreak(userID, habitID, func(st habit.StreakState) habit.StreakState {
		return streak.Apply(st, ev.CompletedAt, s.loc)
	})
	if err != nil {
		logger.Error("Failed to update streak", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}
	completionsTotal.WithLabelValues(userID).Inc()
	logger.Info("Completion logged", "user_id", userID, "habit_id", habitID,
		"current_streak", st.CurrentStreak, "longest_streak", st.LongestStreak)

	resp := LogCompletionResponse{Event: ev, Streak: st}
	if err := writeJSON(w, http.StatusCreated, resp); err != nil {
		logger.Error("Failed to serialize log completion response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getHabitLogs(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromRequest(r)

	from, to, err := parseRangeQuery(r, s.loc)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}

	entries, err := s.store.ListHabitEvents(userID, habitID, from, to)
	if err != nil {
		logger.Error("Failed to list habit events", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := HabitLogsResponse{HabitID: habitID, Entries: entries}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize habit logs response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getHabitSummary(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromRequest(r)
	logger.Debug("Getting habit summary", "habit_id", habitID, "user_id", userID)

	h, err := s.store.GetHabitInfo(userID, habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
			return
		}
		logger.Error("Failed to load habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	summary, err := s.computeSummary(userID, h, time.Now())
	if err != nil {
		logger.Error("Failed to compute habit summary", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"error computing summary"}`, http.StatusInternalServerError)
		return
	}

	resp := HabitSummaryResponse{HabitID: habitID, HabitSummary: summary}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize habit summary response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}
