package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name string
		kind string
		days []string
		want FrequencyKind
	}{
		{"daily", "daily", nil, KindDaily},
		{"original daily spelling", "Daily", nil, KindDaily},
		{"weekly", "Weekly", nil, KindWeekly},
		{"twice a week", "Twice a Week", nil, KindTwiceWeekly},
		{"twice weekly", "twice-weekly", nil, KindTwiceWeekly},
		{"custom", "Custom", []string{"Monday", "wed"}, KindCustom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFrequency(tt.kind, tt.days)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Kind())
		})
	}
}

func TestParseFrequency_Errors(t *testing.T) {
	_, err := ParseFrequency("hourly", nil)
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = ParseFrequency("custom", nil)
	assert.ErrorIs(t, err, ErrEmptyCustomDays)

	_, err = ParseFrequency("custom", []string{"Monday", "Blursday"})
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = ParseFrequency("daily", []string{"Monday"})
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestCustomFrequency(t *testing.T) {
	c, err := NewCustomFrequency(time.Wednesday, time.Monday)
	require.NoError(t, err)

	assert.Equal(t, NewWeekdaySet(time.Monday, time.Wednesday), c.Days())
	assert.Equal(t, "Custom (Monday, Wednesday)", c.String())

	same, err := NewCustomFrequency(time.Monday, time.Wednesday, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, Frequency(c), Frequency(same))

	_, err = NewCustomFrequency()
	assert.ErrorIs(t, err, ErrEmptyCustomDays)
}
