package server

import (
	"fmt"
	"net/http"
	"time"

	"habitflow/pkg/habit"
)

const (
	maxNameLength        = 40
	maxDescriptionLength = 256
	maxNoteLength        = 1024
	maxReflectionLength  = 4096

	// Sanity window for client-supplied timestamps: 2000-01-01..2100-01-01.
	minTS = 946684800
	maxTS = 4102444800
)

func validateHabit(h habit.Habit) error {
	if len(h.Name) == 0 || len(h.Name) > maxNameLength {
		return fmt.Errorf("bad habit name: must be 1-%d characters", maxNameLength)
	}
	if len(h.Description) > maxDescriptionLength {
		return fmt.Errorf("bad habit description: must be 0-%d characters", maxDescriptionLength)
	}
	return nil
}

func validateCompletion(ev habit.CompletionEvent) error {
	if ev.CompletedAt < minTS || ev.CompletedAt > maxTS {
		return fmt.Errorf("invalid timestamp")
	}
	if !ev.Mood.Valid() {
		return fmt.Errorf("invalid mood")
	}
	if len(ev.Note) > maxNoteLength {
		return fmt.Errorf("bad note: must be 0-%d characters", maxNoteLength)
	}
	if len(ev.Reflection) > maxReflectionLength {
		return fmt.Errorf("bad reflection: must be 0-%d characters", maxReflectionLength)
	}
	return nil
}

func validateReflection(r habit.Reflection) error {
	if len(r.Content) == 0 || len(r.Content) > maxReflectionLength {
		return fmt.Errorf("bad reflection content: must be 1-%d characters", maxReflectionLength)
	}
	if !r.Mood.Valid() {
		return fmt.Errorf("invalid mood")
	}
	return nil
}

// parseRangeQuery reads optional start/end YYYY-MM-DD query params into a
// [from, to) unix window. Missing bounds widen to the timestamp sanity limits.
func parseRangeQuery(r *http.Request, loc *time.Location) (from, to int64, err error) {
	from, to = 0, maxTS
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start date")
		}
		from = t.Unix()
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end date")
		}
		// end is inclusive of the named day
		to = t.AddDate(0, 0, 1).Unix()
	}
	return from, to, nil
}
