package domain

import (
	"fmt"
	"math/bits"
	"strings"
	"time"
)

// WeekdaySet is a set of weekdays stored as a bitmask, bit i for
// time.Weekday(i).
type WeekdaySet uint8

const allWeekdays WeekdaySet = 1<<7 - 1

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// NewWeekdaySet builds a set from days. Duplicates collapse.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// Add returns s with d included. Values outside Sunday..Saturday are ignored.
func (s WeekdaySet) Add(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Len() int      { return bits.OnesCount8(uint8(s & allWeekdays)) }
func (s WeekdaySet) IsEmpty() bool { return s&allWeekdays == 0 }

// Days lists the members from Sunday to Saturday.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, s.Len())
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Names lists the English names of the members from Sunday to Saturday.
func (s WeekdaySet) Names() []string {
	names := make([]string, 0, s.Len())
	for _, d := range s.Days() {
		names = append(names, weekdayNames[d])
	}
	return names
}

func (s WeekdaySet) String() string {
	return strings.Join(s.Names(), ", ")
}

// ParseWeekday accepts full English weekday names or their three-letter
// abbreviations, in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle != "" {
		for i, name := range weekdayNames {
			lower := strings.ToLower(name)
			if needle == lower || needle == lower[:3] {
				return time.Weekday(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// ParseWeekdaySet parses every name and fails on the first bad one.
func ParseWeekdaySet(names []string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return 0, err
		}
		s = s.Add(d)
	}
	return s, nil
}
