// Package streak derives per-habit streak state from completion events.
//
// All day arithmetic is date-only in a single location: the time of day is
// discarded, so an 11pm completion followed by a 1am completion the next
// morning counts as two consecutive days.
package streak

import (
	"slices"
	"time"

	"habitflow/pkg/habit"
)

// dayNumber maps a unix timestamp to a whole-day ordinal for the calendar
// date it falls on in loc. Consecutive dates differ by exactly 1 regardless
// of DST transitions.
func dayNumber(ts int64, loc *time.Location) int64 {
	t := time.Unix(ts, 0).In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Apply folds one new completion event into a stored streak state. It is the
// only mutation path for StreakState and must run under the store's per-key
// atomic update.
//
// Rules, keyed on the whole-day gap between the event and the last recorded
// completion:
//
//	gap == 0  same-day re-log: count unchanged, timestamp advances
//	gap == 1  consecutive day: count + 1
//	gap  > 1  missed at least one day: hard reset to 1
//	gap  < 0  out-of-order backfill: no-op on stored state
func Apply(st habit.StreakState, at int64, loc *time.Location) habit.StreakState {
	if st.LastCompletedAt == 0 {
		st.CurrentStreak = 1
		st.LastCompletedAt = at
	} else {
		gap := dayNumber(at, loc) - dayNumber(st.LastCompletedAt, loc)
		switch {
		case gap < 0:
			return st
		case gap == 1:
			st.CurrentStreak++
		case gap > 1:
			st.CurrentStreak = 1
		}
		st.LastCompletedAt = at
	}
	st.LongestStreak = max(st.LongestStreak, st.CurrentStreak)
	return st
}

// Valid returns the displayable current streak as of now. The stored count
// only reflects reality if the last completion was today or yesterday; a
// larger gap means the chain is broken and the effective streak is 0, even
// though the stored value is only corrected lazily on the next completion.
func Valid(st habit.StreakState, now time.Time, loc *time.Location) int {
	if st.LastCompletedAt == 0 {
		return 0
	}
	if dayNumber(now.Unix(), loc)-dayNumber(st.LastCompletedAt, loc) > 1 {
		return 0
	}
	return st.CurrentStreak
}

// Recompute derives current and longest streaks from a habit's full event
// history. Agrees with repeated Apply for in-order histories; unlike Apply it
// also credits backfilled events, so it serves as the corrective path for the
// summary endpoint.
func Recompute(events []habit.CompletionEvent, now time.Time, loc *time.Location) (current, longest int) {
	uniq := make(map[int64]struct{}, len(events))
	for i := range events {
		uniq[dayNumber(events[i].CompletedAt, loc)] = struct{}{}
	}
	if len(uniq) == 0 {
		return 0, 0
	}

	days := make([]int64, 0, len(uniq))
	for d := range uniq {
		days = append(days, d)
	}
	slices.Sort(days)
	slices.Reverse(days)

	today := dayNumber(now.Unix(), loc)
	ongoing := days[0] == today || days[0] == today-1

	longest = 1
	run := 1
	if ongoing {
		current = 1
	}
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] == 1 {
			run++
			longest = max(longest, run)
			if ongoing {
				current++
			}
		} else {
			run = 1
			ongoing = false
		}
	}
	return current, longest
}
