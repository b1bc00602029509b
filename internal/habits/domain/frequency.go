package domain

import (
	"fmt"
	"strings"
	"time"
)

// FrequencyKind names a recurrence rule.
type FrequencyKind string

const (
	KindDaily       FrequencyKind = "daily"
	KindWeekly      FrequencyKind = "weekly"
	KindTwiceWeekly FrequencyKind = "twice_weekly"
	KindCustom      FrequencyKind = "custom"
)

// Frequency is the recurrence rule of a habit. The set of implementations is
// closed: Daily, Weekly, TwiceWeekly and Custom.
type Frequency interface {
	Kind() FrequencyKind
	String() string
	frequency()
}

// Daily is due every day not yet completed.
type Daily struct{}

// Weekly is due once per Sunday-to-Saturday week, with Saturday as deadline.
type Weekly struct{}

// TwiceWeekly is due twice per week, with Friday and Saturday as deadlines.
type TwiceWeekly struct{}

// Custom is due on an explicit, non-empty set of weekdays.
type Custom struct {
	days WeekdaySet
}

func (Daily) Kind() FrequencyKind       { return KindDaily }
func (Weekly) Kind() FrequencyKind      { return KindWeekly }
func (TwiceWeekly) Kind() FrequencyKind { return KindTwiceWeekly }
func (Custom) Kind() FrequencyKind      { return KindCustom }

func (Daily) String() string       { return "Daily" }
func (Weekly) String() string      { return "Weekly" }
func (TwiceWeekly) String() string { return "Twice a Week" }
func (c Custom) String() string    { return "Custom (" + c.days.String() + ")" }

func (Daily) frequency()       {}
func (Weekly) frequency()      {}
func (TwiceWeekly) frequency() {}
func (Custom) frequency()      {}

// Days returns the weekdays the habit is scheduled on.
func (c Custom) Days() WeekdaySet { return c.days }

// NewCustomFrequency builds a Custom rule.
func NewCustomFrequency(days ...time.Weekday) (Custom, error) {
	set := NewWeekdaySet(days...)
	if set.IsEmpty() {
		return Custom{}, ErrEmptyCustomDays
	}
	return Custom{days: set}, nil
}

// CustomFromSet builds a Custom rule from an existing set.
func CustomFromSet(set WeekdaySet) (Custom, error) {
	return NewCustomFrequency(set.Days()...)
}

// ParseFrequencyKind normalises user-facing spellings such as "Twice a Week"
// or "twice-weekly".
func ParseFrequencyKind(s string) (FrequencyKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	switch normalized {
	case "daily":
		return KindDaily, nil
	case "weekly":
		return KindWeekly, nil
	case "twice_weekly", "twice_a_week", "twice":
		return KindTwiceWeekly, nil
	case "custom":
		return KindCustom, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
}

// ParseFrequency builds a Frequency from a kind and, for custom rules, a list
// of weekday names. Days given for other kinds are rejected.
func ParseFrequency(kind string, days []string) (Frequency, error) {
	k, err := ParseFrequencyKind(kind)
	if err != nil {
		return nil, err
	}
	if k != KindCustom {
		if len(days) > 0 {
			return nil, fmt.Errorf("%w: weekdays only apply to custom habits", ErrInvalidFrequency)
		}
		return frequencyOfKind(k), nil
	}
	set, err := ParseWeekdaySet(days)
	if err != nil {
		return nil, err
	}
	return CustomFromSet(set)
}

func frequencyOfKind(k FrequencyKind) Frequency {
	switch k {
	case KindDaily:
		return Daily{}
	case KindWeekly:
		return Weekly{}
	case KindTwiceWeekly:
		return TwiceWeekly{}
	}
	return nil
}

func validateFrequency(f Frequency) error {
	switch v := f.(type) {
	case Daily, Weekly, TwiceWeekly:
		return nil
	case Custom:
		if v.days.IsEmpty() {
			return ErrEmptyCustomDays
		}
		return nil
	default:
		return ErrInvalidFrequency
	}
}
