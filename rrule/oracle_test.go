package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	teambition "github.com/teambition/rrule-go"
)

// Cross-checks occurrence generation against teambition/rrule-go for
// zone-offset-free cases. The reference library implements the full RFC 5545
// recurrence set, so within our restricted grammar the two must agree.
func TestIterator_AgainstReferenceLibrary(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	horizon := start.AddDate(2, 0, 0)

	tests := []struct {
		name string
		text string
		ref  teambition.ROption
	}{
		{
			name: "daily",
			text: "FREQ=DAILY",
			ref:  teambition.ROption{Freq: teambition.DAILY},
		},
		{
			name: "daily interval 3",
			text: "FREQ=DAILY;INTERVAL=3",
			ref:  teambition.ROption{Freq: teambition.DAILY, Interval: 3},
		},
		{
			name: "daily filtered to one month day",
			text: "FREQ=DAILY;BYMONTHDAY=15",
			ref:  teambition.ROption{Freq: teambition.DAILY, Bymonthday: []int{15}},
		},
		{
			name: "weekly on anchor weekday",
			text: "FREQ=WEEKLY",
			ref:  teambition.ROption{Freq: teambition.WEEKLY},
		},
		{
			name: "weekly on listed days",
			text: "FREQ=WEEKLY;BYDAY=MO,WE,FR",
			ref: teambition.ROption{
				Freq:      teambition.WEEKLY,
				Byweekday: []teambition.Weekday{teambition.MO, teambition.WE, teambition.FR},
			},
		},
		{
			name: "biweekly on Monday",
			text: "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO",
			ref: teambition.ROption{
				Freq:      teambition.WEEKLY,
				Interval:  2,
				Byweekday: []teambition.Weekday{teambition.MO},
			},
		},
		{
			name: "monthly on anchor day",
			text: "FREQ=MONTHLY",
			ref:  teambition.ROption{Freq: teambition.MONTHLY},
		},
		{
			name: "monthly on last day",
			text: "FREQ=MONTHLY;BYMONTHDAY=-1",
			ref:  teambition.ROption{Freq: teambition.MONTHLY, Bymonthday: []int{-1}},
		},
		{
			name: "monthly on several days",
			text: "FREQ=MONTHLY;INTERVAL=2;BYMONTHDAY=1,15,28",
			ref:  teambition.ROption{Freq: teambition.MONTHLY, Interval: 2, Bymonthday: []int{1, 15, 28}},
		},
		{
			name: "yearly",
			text: "FREQ=YEARLY",
			ref:  teambition.ROption{Freq: teambition.YEARLY},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := tt.ref
			opt.Dtstart = start
			ref, err := teambition.NewRRule(opt)
			require.NoError(t, err)
			want := ref.Between(start, horizon, false)

			it, err := MustParse(tt.text).Iterator(start, time.UTC)
			require.NoError(t, err)
			var got []time.Time
			for len(got) < len(want) {
				next, err := it.Next()
				require.NoError(t, err)
				got = append(got, next)
			}

			require.Equal(t, len(want), len(got))
			for i := range want {
				assert.True(t, want[i].Equal(got[i]),
					"occurrence %d: reference %v, got %v", i, want[i], got[i])
			}
		})
	}
}
