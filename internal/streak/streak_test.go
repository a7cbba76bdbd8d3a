package streak

import (
	"testing"
	"time"

	"habitflow/pkg/habit"
)

// day returns noon UTC on day n of a fixed reference month, so tests read as
// "day 1, day 2, ..." without caring about absolute dates.
func day(n int) time.Time {
	return time.Date(2025, time.March, n, 12, 0, 0, 0, time.UTC)
}

func TestApply_FirstCompletion(t *testing.T) {
	st := Apply(habit.StreakState{HabitID: "h1"}, day(1).Unix(), time.UTC)

	if st.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1", st.CurrentStreak)
	}
	if st.LongestStreak != 1 {
		t.Errorf("longest = %d, want 1", st.LongestStreak)
	}
	if st.LastCompletedAt != day(1).Unix() {
		t.Errorf("lastCompletedAt = %d, want %d", st.LastCompletedAt, day(1).Unix())
	}
}

func TestApply_ConsecutiveDays(t *testing.T) {
	st := habit.StreakState{HabitID: "h1"}
	for n := 1; n <= 5; n++ {
		st = Apply(st, day(n).Unix(), time.UTC)
	}

	if st.CurrentStreak != 5 {
		t.Errorf("current = %d, want 5", st.CurrentStreak)
	}
	if st.LongestStreak != 5 {
		t.Errorf("longest = %d, want 5", st.LongestStreak)
	}
}

func TestApply_SameDayIdempotent(t *testing.T) {
	st := habit.StreakState{HabitID: "h1"}
	st = Apply(st, day(1).Unix(), time.UTC)
	st = Apply(st, day(2).Unix(), time.UTC)

	relog := day(2).Add(4 * time.Hour)
	st = Apply(st, relog.Unix(), time.UTC)

	if st.CurrentStreak != 2 {
		t.Errorf("current = %d, want 2 after same-day re-log", st.CurrentStreak)
	}
	if st.LastCompletedAt != relog.Unix() {
		t.Errorf("lastCompletedAt = %d, want timestamp to advance to %d", st.LastCompletedAt, relog.Unix())
	}
}

func TestApply_GapResetsToOne(t *testing.T) {
	st := habit.StreakState{HabitID: "h1"}
	for n := 1; n <= 3; n++ {
		st = Apply(st, day(n).Unix(), time.UTC)
	}
	// miss day 4
	st = Apply(st, day(5).Unix(), time.UTC)

	if st.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1 after missed day", st.CurrentStreak)
	}
	if st.LongestStreak != 3 {
		t.Errorf("longest = %d, want 3 preserved across reset", st.LongestStreak)
	}
}

func TestApply_BackfillIsNoOp(t *testing.T) {
	st := habit.StreakState{HabitID: "h1"}
	st = Apply(st, day(9).Unix(), time.UTC)
	st = Apply(st, day(10).Unix(), time.UTC)

	got := Apply(st, day(3).Unix(), time.UTC)

	if got != st {
		t.Errorf("backfilled event changed state: got %+v, want %+v", got, st)
	}
}

func TestApply_LongestNeverDecreases(t *testing.T) {
	days := []int{1, 2, 3, 5, 6, 10, 11, 12, 13, 20}
	st := habit.StreakState{HabitID: "h1"}
	prev := 0
	for _, n := range days {
		st = Apply(st, day(n).Unix(), time.UTC)
		if st.LongestStreak < prev {
			t.Fatalf("longest decreased: %d -> %d at day %d", prev, st.LongestStreak, n)
		}
		if st.LongestStreak < st.CurrentStreak {
			t.Fatalf("invariant broken at day %d: longest %d < current %d", n, st.LongestStreak, st.CurrentStreak)
		}
		prev = st.LongestStreak
	}
	if st.LongestStreak != 4 {
		t.Errorf("longest = %d, want 4 (days 10-13)", st.LongestStreak)
	}
}

func TestApply_DayBoundaryNotDuration(t *testing.T) {
	// 11pm then 1am next day is a 2-hour gap but two calendar days.
	late := time.Date(2025, time.March, 1, 23, 0, 0, 0, time.UTC)
	early := time.Date(2025, time.March, 2, 1, 0, 0, 0, time.UTC)

	st := habit.StreakState{HabitID: "h1"}
	st = Apply(st, late.Unix(), time.UTC)
	st = Apply(st, early.Unix(), time.UTC)

	if st.CurrentStreak != 2 {
		t.Errorf("current = %d, want 2 across midnight", st.CurrentStreak)
	}
}

func TestValid(t *testing.T) {
	st := habit.StreakState{HabitID: "h1", CurrentStreak: 4, LongestStreak: 4, LastCompletedAt: day(10).Unix()}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"completed today", day(10), 4},
		{"completed yesterday", day(11), 4},
		{"two days stale", day(12), 0},
		{"a week stale", day(17), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(st, tt.now, time.UTC); got != tt.want {
				t.Errorf("Valid = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValid_NeverCompleted(t *testing.T) {
	if got := Valid(habit.StreakState{HabitID: "h1"}, day(1), time.UTC); got != 0 {
		t.Errorf("Valid = %d, want 0 for never-completed habit", got)
	}
}

func TestValid_DoesNotMutate(t *testing.T) {
	st := habit.StreakState{HabitID: "h1", CurrentStreak: 4, LongestStreak: 4, LastCompletedAt: day(1).Unix()}
	before := st
	Valid(st, day(20), time.UTC)
	if st != before {
		t.Error("Valid mutated the stored state")
	}
}

func events(days ...int) []habit.CompletionEvent {
	out := make([]habit.CompletionEvent, 0, len(days))
	for _, n := range days {
		out = append(out, habit.CompletionEvent{HabitID: "h1", CompletedAt: day(n).Unix()})
	}
	return out
}

func TestRecompute(t *testing.T) {
	tests := []struct {
		name        string
		days        []int
		now         time.Time
		wantCurrent int
		wantLongest int
	}{
		{"no events", nil, day(10), 0, 0},
		{"single day today", []int{10}, day(10), 1, 1},
		{"single day yesterday", []int{9}, day(10), 1, 1},
		{"single day stale", []int{5}, day(10), 0, 1},
		{"run ending today", []int{8, 9, 10}, day(10), 3, 3},
		{"run ending yesterday", []int{7, 8, 9}, day(10), 3, 3},
		{"broken run", []int{1, 2, 3, 5}, day(5), 1, 3},
		{"old longer run", []int{1, 2, 3, 4, 9, 10}, day(10), 2, 4},
		{"duplicate days collapse", []int{10, 10, 10}, day(10), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := Recompute(events(tt.days...), tt.now, time.UTC)
			if current != tt.wantCurrent || longest != tt.wantLongest {
				t.Errorf("Recompute = (%d, %d), want (%d, %d)",
					current, longest, tt.wantCurrent, tt.wantLongest)
			}
		})
	}
}

func TestRecompute_AgreesWithApply(t *testing.T) {
	days := []int{1, 2, 4, 5, 6, 9, 10}
	st := habit.StreakState{HabitID: "h1"}
	for _, n := range days {
		st = Apply(st, day(n).Unix(), time.UTC)
	}

	current, longest := Recompute(events(days...), day(10), time.UTC)
	if current != st.CurrentStreak {
		t.Errorf("current: Recompute %d != Apply %d", current, st.CurrentStreak)
	}
	if longest != st.LongestStreak {
		t.Errorf("longest: Recompute %d != Apply %d", longest, st.LongestStreak)
	}
}
