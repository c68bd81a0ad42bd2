package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want func(t *testing.T, r *Rule)
	}{
		{
			name: "minimal daily",
			text: "FREQ=DAILY",
			want: func(t *testing.T, r *Rule) {
				assert.Equal(t, Daily, r.Frequency())
				assert.Equal(t, 1, r.Interval())
				assert.Empty(t, r.ByDay())
				assert.True(t, r.Count().IsAbsent())
				assert.True(t, r.Until().IsAbsent())
				assert.False(t, r.Bounded())
			},
		},
		{
			name: "weekly with days and count",
			text: "FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=10",
			want: func(t *testing.T, r *Rule) {
				assert.Equal(t, Weekly, r.Frequency())
				assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, r.ByDay())
				assert.Equal(t, 10, r.Count().MustGet())
				assert.True(t, r.Bounded())
			},
		},
		{
			name: "monthly with month days and until",
			text: "FREQ=MONTHLY;INTERVAL=2;BYMONTHDAY=1,15,-1;UNTIL=20251231T235959Z",
			want: func(t *testing.T, r *Rule) {
				assert.Equal(t, Monthly, r.Frequency())
				assert.Equal(t, 2, r.Interval())
				assert.Equal(t, []int{-1, 1, 15}, r.ByMonthDay())
				until := r.Until().MustGet()
				assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), until)
			},
		},
		{
			name: "date-only until",
			text: "FREQ=YEARLY;UNTIL=20301231",
			want: func(t *testing.T, r *Rule) {
				assert.Equal(t, Yearly, r.Frequency())
				assert.Equal(t, time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC), r.Until().MustGet())
			},
		},
		{
			name: "case-insensitive keys and RRULE prefix",
			text: "RRULE:freq=daily;interval=3",
			want: func(t *testing.T, r *Rule) {
				assert.Equal(t, Daily, r.Frequency())
				assert.Equal(t, 3, r.Interval())
			},
		},
		{
			name: "duplicate and unordered day codes normalize",
			text: "FREQ=WEEKLY;BYDAY=FR,MO,FR,MO",
			want: func(t *testing.T, r *Rule) {
				assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, r.ByDay())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Parse(tt.text)
			require.NoError(t, err)
			tt.want(t, rule)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{name: "empty", text: ""},
		{name: "missing FREQ", text: "INTERVAL=2", field: "FREQ"},
		{name: "unknown frequency", text: "FREQ=FORTNIGHTLY", field: "FREQ"},
		{name: "sub-daily frequency", text: "FREQ=HOURLY", field: "FREQ"},
		{name: "bare token", text: "FREQ=DAILY;NONSENSE"},
		{name: "unsupported field", text: "FREQ=DAILY;BYSETPOS=1", field: "BYSETPOS"},
		{name: "zero interval", text: "FREQ=DAILY;INTERVAL=0", field: "INTERVAL"},
		{name: "negative count", text: "FREQ=DAILY;COUNT=-3", field: "COUNT"},
		{name: "bad until", text: "FREQ=DAILY;UNTIL=tomorrow", field: "UNTIL"},
		{name: "count and until together", text: "FREQ=DAILY;COUNT=3;UNTIL=20250101T000000Z"},
		{name: "duplicate field", text: "FREQ=DAILY;FREQ=WEEKLY", field: "FREQ"},
		{name: "unknown day code", text: "FREQ=WEEKLY;BYDAY=XX", field: "BYDAY"},
		{name: "ordinal day code", text: "FREQ=MONTHLY;BYDAY=2MO", field: "BYDAY"},
		{name: "zero month day", text: "FREQ=MONTHLY;BYMONTHDAY=0", field: "BYMONTHDAY"},
		{name: "month day out of range", text: "FREQ=MONTHLY;BYMONTHDAY=32", field: "BYMONTHDAY"},
		{name: "month day with weekly", text: "FREQ=WEEKLY;BYMONTHDAY=5", field: "BYMONTHDAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Parse(tt.text)
			assert.Nil(t, rule)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
			assert.Equal(t, tt.text, parseErr.Text)
		})
	}
}

func TestRule_StringRoundTrip(t *testing.T) {
	texts := []string{
		"FREQ=DAILY",
		"FREQ=DAILY;INTERVAL=4",
		"FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=10",
		"FREQ=MONTHLY;INTERVAL=2;BYMONTHDAY=-1,1,15",
		"FREQ=YEARLY;UNTIL=20301231T000000Z",
	}
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			rule := MustParse(text)
			reparsed, err := Parse(rule.String())
			require.NoError(t, err)
			assert.True(t, rule.Equal(reparsed), "round-trip changed rule: %s vs %s", rule, reparsed)
		})
	}
}

func TestRule_Equal(t *testing.T) {
	assert.True(t, MustParse("FREQ=DAILY;INTERVAL=1").Equal(MustParse("FREQ=DAILY")))
	assert.True(t, MustParse("FREQ=WEEKLY;BYDAY=WE,MO").Equal(MustParse("FREQ=WEEKLY;BYDAY=MO,WE")))
	assert.False(t, MustParse("FREQ=DAILY").Equal(MustParse("FREQ=WEEKLY")))
	assert.False(t, MustParse("FREQ=DAILY;COUNT=1").Equal(MustParse("FREQ=DAILY")))
}
