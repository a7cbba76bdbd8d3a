package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"habitflow/internal/logger"
	"habitflow/internal/storage"
	"habitflow/pkg/habit"
)

func (s *Server) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	logger.Debug("Getting dashboard stats", "user_id", userID)

	// The facade degrades internally; this handler never 500s on a
	// partial sub-fetch failure.
	out := s.stats.Dashboard(userID, time.Now())
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		logger.Error("Failed to serialize dashboard stats response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getMonthCalendar(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	now := time.Now().In(s.loc)

	year := now.Year()
	month := int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, `{"error":"invalid year"}`, http.StatusBadRequest)
			return
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			http.Error(w, `{"error":"invalid month"}`, http.StatusBadRequest)
			return
		}
		month = n
	}

	logger.Debug("Getting month calendar", "user_id", userID, "year", year, "month", month)
	out, err := s.stats.MonthCalendar(userID, year, time.Month(month))
	if err != nil {
		logger.Error("Failed to build month calendar", "user_id", userID, "year", year, "month", month, "error", err)
		http.Error(w, `{"error":"error building calendar"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, out); err != nil {
		logger.Error("Failed to serialize month calendar response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getDayDetail(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	date := chi.URLParam(r, "date")

	detail, err := s.stats.DayDetail(userID, date)
	if err != nil {
		// An unparseable date is a caller mistake, not a server fault.
		var pe *time.ParseError
		if errors.As(err, &pe) {
			http.Error(w, `{"error":"invalid date, want YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		logger.Error("Failed to build day detail", "user_id", userID, "date", date, "error", err)
		http.Error(w, `{"error":"error building day detail"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, detail); err != nil {
		logger.Error("Failed to serialize day detail response", "user_id", userID, "date", date, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) createReflection(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	var body struct {
		HabitID string     `json:"habit_id"`
		Content string     `json:"content"`
		Mood    habit.Mood `json:"mood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("Invalid JSON in create reflection request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	ref := habit.Reflection{
		ID:        uuid.NewString(),
		HabitID:   body.HabitID,
		Content:   body.Content,
		Mood:      body.Mood,
		CreatedAt: time.Now().Unix(),
	}
	if err := validateReflection(ref); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}

	logger.Info("Creating reflection", "user_id", userID, "reflection_id", ref.ID)
	if err := s.store.PutReflection(userID, ref); err != nil {
		logger.Error("Failed to store reflection", "user_id", userID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusCreated, ref); err != nil {
		logger.Error("Failed to serialize create reflection response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) listReflections(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	reflections, err := s.store.ListReflections(userID)
	if err != nil {
		logger.Error("Failed to list reflections", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	if habitID := r.URL.Query().Get("habit_id"); habitID != "" {
		filtered := reflections[:0]
		for _, ref := range reflections {
			if ref.HabitID == habitID {
				filtered = append(filtered, ref)
			}
		}
		reflections = filtered
	}

	if err := writeJSON(w, http.StatusOK, ReflectionListResponse{Reflections: reflections}); err != nil {
		logger.Error("Failed to serialize reflections response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getReflection(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	reflectionID := chi.URLParam(r, "reflection_id")

	ref, err := s.store.GetReflection(userID, reflectionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, `{"error":"reflection not found"}`, http.StatusNotFound)
			return
		}
		logger.Error("Failed to get reflection", "user_id", userID, "reflection_id", reflectionID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, ref); err != nil {
		logger.Error("Failed to serialize reflection response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}
