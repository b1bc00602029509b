package domain

import "time"

// CompletionsThisWeek counts recorded days inside the Sunday-to-Saturday week
// containing ref. With excludeRef set, ref itself is not counted.
func CompletionsThisWeek(record CompletionRecord, ref Date, excludeRef bool) int {
	start, end := ref.WeekStart(), ref.WeekEnd()
	count := 0
	for _, d := range record {
		if d.Before(start) || d.After(end) {
			continue
		}
		if excludeRef && d.Equal(ref) {
			continue
		}
		count++
	}
	return count
}

// IsDueOn reports whether a habit with the given rule and history still
// needs action on ref.
func IsDueOn(frequency Frequency, record CompletionRecord, ref Date) bool {
	switch f := frequency.(type) {
	case Daily:
		return !record.Contains(ref)
	case Weekly:
		// ref is counted: a Saturday completion clears Saturday.
		return ref.Weekday() == time.Saturday && CompletionsThisWeek(record, ref, false) == 0
	case TwiceWeekly:
		done := CompletionsThisWeek(record, ref, true)
		switch ref.Weekday() {
		// Friday uses Saturday's threshold of two, not one: a single earlier
		// completion still leaves the habit due on Friday.
		case time.Friday, time.Saturday:
			return done < 2 && !record.Contains(ref)
		default:
			return false
		}
	case Custom:
		return f.days.Has(ref.Weekday()) && !record.Contains(ref)
	default:
		return false
	}
}

// IsDue reports whether h needs action on ref.
func IsDue(h *Habit, ref Date) bool {
	return IsDueOn(h.frequency, h.completionRecord, ref)
}

// Partition splits habits into those due on ref and the rest. Both groups
// keep input order and every habit lands in exactly one of them.
func Partition(habits []*Habit, ref Date) (due, notDue []*Habit) {
	isDue := make([]bool, len(habits))
	due = make([]*Habit, 0, len(habits))
	for i, h := range habits {
		if IsDue(h, ref) {
			isDue[i] = true
			due = append(due, h)
		}
	}

	notDue = make([]*Habit, 0, len(habits)-len(due))
	for i, h := range habits {
		if !isDue[i] {
			notDue = append(notDue, h)
		}
	}
	return due, notDue
}

// RecordCompletion is the function form of Habit.RecordCompletion.
func RecordCompletion(h *Habit, ref Date) (*Habit, error) {
	return h.RecordCompletion(ref)
}
