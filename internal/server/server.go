package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"habitflow/internal/config"
	"habitflow/internal/stats"
	"habitflow/internal/storage"
)

// userIDHeader carries the caller's identity. There is no authentication
// layer; absent the header, requests act on the default user.
const userIDHeader = "X-User-ID"
const defaultUserID = "default"

type Server struct {
	store storage.Store
	cfg   *config.Config
	loc   *time.Location
	stats *stats.Facade
}

func New(store storage.Store, cfg *config.Config) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Server{
		store: store,
		cfg:   cfg,
		loc:   loc,
		stats: stats.New(store, loc),
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/habits", func(r chi.Router) {
		r.Post("/", s.createHabit)
		r.Get("/", s.listHabits)
		r.Get("/today", s.getTodayProgress)
		r.Put("/{habit_id}", s.updateHabit)
		r.Delete("/{habit_id}", s.deleteHabit)
		r.Post("/{habit_id}/log", s.logCompletion)
		r.Get("/{habit_id}/logs", s.getHabitLogs)
		r.Get("/{habit_id}/summary", s.getHabitSummary)
	})

	r.Get("/stats", s.getDashboardStats)

	r.Route("/calendar", func(r chi.Router) {
		r.Get("/", s.getMonthCalendar)
		r.Get("/{date}", s.getDayDetail)
	})

	r.Route("/reflections", func(r chi.Router) {
		r.Post("/", s.createReflection)
		r.Get("/", s.listReflections)
		r.Get("/{reflection_id}", s.getReflection)
	})

	return r
}

func userIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(userIDHeader); id != "" {
		return id
	}
	return defaultUserID
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}
