package when

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	at    *time.Time
	err   error
	calls int
	input string
	ref   time.Time
}

func (f *fakeParser) ParseDate(input string, ref time.Time) (*time.Time, error) {
	f.calls++
	f.input = input
	f.ref = ref
	return f.at, f.err
}

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestResolveStructuredFutureDate(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	out := r.Resolve("2025-12-25 09:30", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 12, 25, 9, 30, 0, 0, time.UTC), out.At)
}

func TestResolveStructuredInUserZone(t *testing.T) {
	r := NewWithParser(nil)
	tokyo := mustZone(t, "Asia/Tokyo")
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	out := r.Resolve("25 December 2025 9:30 am", tokyo, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 30, 0, 0, time.UTC), out.At)
	assert.Equal(t, time.UTC, out.At.Location())
}

func TestResolveStructuredLayouts(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025/04/01", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"01.04.2025 18:00", time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC)},
		{"04/01/2025 3PM", time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC)},
		{"april 1, 2025", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"Apr 1 2025 7:15 pm", time.Date(2025, 4, 1, 19, 15, 0, 0, time.UTC)},
		{"2025-04-01T08:00", time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)},
		{"june 2025", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"2025-06", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := r.Resolve(tt.input, time.UTC, now)
			require.True(t, out.Accepted(), out.Detail)
			assert.Equal(t, tt.want, out.At)
		})
	}
}

func TestResolveMonthYearClampsDay(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)

	out := r.Resolve("February 2025", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), out.At)
}

func TestResolvePastFullDateRejected(t *testing.T) {
	r := NewWithParser(&fakeParser{})
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	out := r.Resolve("2024-01-01", time.UTC, now)
	assert.False(t, out.Accepted())
	assert.Equal(t, ReasonPastDate, out.Reason)
	assert.NotEmpty(t, out.Detail)
	assert.True(t, out.At.IsZero())
}

func TestResolveYearOmittedRollsForward(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	out := r.Resolve("Jan 5", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), out.At)

	out = r.Resolve("5 april 14:00", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 4, 5, 14, 0, 0, 0, time.UTC), out.At)
}

func TestResolveTimeOnlyRollsToTomorrow(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	out := r.Resolve("15:00", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), out.At)

	out = r.Resolve("9am", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), out.At)
}

func TestResolveNewYorkEvening(t *testing.T) {
	r := NewWithParser(nil)
	ny := mustZone(t, "America/New_York")

	before := time.Date(2025, 7, 1, 20, 55, 0, 0, ny)
	out := r.Resolve("9 PM", ny, before)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 7, 2, 1, 0, 0, 0, time.UTC), out.At)
	assert.Equal(t, 5*time.Minute, out.At.Sub(before))

	after := time.Date(2025, 7, 1, 21, 5, 0, 0, ny)
	out = r.Resolve("9 PM", ny, after)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 7, 3, 1, 0, 0, 0, time.UTC), out.At)
}

func TestResolveWeekdayBounds(t *testing.T) {
	r := NewWithParser(nil)
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) // Monday

	names := []string{"monday", "Tue", "wednesday", "thu", "FRIDAY", "sat", "Sunday"}
	for h := 0; h < 24*7; h += 5 {
		now := start.Add(time.Duration(h) * time.Hour)
		for _, name := range names {
			out := r.Resolve(name, time.UTC, now)
			require.True(t, out.Accepted(), "%s at %s: %s", name, now, out.Detail)
			d := out.At.Sub(now)
			assert.Greater(t, d, time.Duration(0), "%s at %s", name, now)
			assert.LessOrEqual(t, d, 7*24*time.Hour, "%s at %s", name, now)
		}
	}
}

func TestResolveWeekdayWithTime(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) // Monday

	out := r.Resolve("monday 18:00", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), out.At)

	out = r.Resolve("Monday at 9 AM", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC), out.At)

	out = r.Resolve("fri 3:30pm", time.UTC, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC), out.At)
}

func TestResolveStrictFutureBoundary(t *testing.T) {
	r := NewWithParser(nil)
	target := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	out := r.Resolve("2025-05-01 10:00", time.UTC, target)
	assert.Equal(t, ReasonPastDate, out.Reason)

	out = r.Resolve("2025-05-01 10:00", time.UTC, target.Add(-time.Second))
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, target, out.At)
}

func TestResolveIsPure(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	loc := mustZone(t, "Europe/Berlin")

	for _, input := range []string{"5 minutes", "friday", "2025-12-01", "8pm", "nonsense"} {
		first := r.Resolve(input, loc, now)
		second := r.Resolve(input, loc, now)
		assert.Equal(t, first, second, input)
	}
}

func TestResolveBlankAndUnknown(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, ReasonUnrecognized, r.Resolve("   ", time.UTC, now).Reason)
	assert.Equal(t, ReasonUnrecognized, r.Resolve("whenever you like", time.UTC, now).Reason)
}

func TestResolveNilLocationMeansUTC(t *testing.T) {
	r := NewWithParser(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	out := r.Resolve("13:00", nil, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC), out.At)
}

func TestResolveNaturalFallback(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	berlin := mustZone(t, "Europe/Berlin")
	want := time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC)

	p := &fakeParser{at: &want}
	r := NewWithParser(p)

	out := r.Resolve("next  friday at noon", berlin, now)
	require.True(t, out.Accepted(), out.Detail)
	assert.Equal(t, want, out.At)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "next friday at noon", p.input)
	assert.Equal(t, berlin, p.ref.Location())
	assert.True(t, p.ref.Equal(now))
}

func TestResolveNaturalNotReachedForEarlierStrategies(t *testing.T) {
	p := &fakeParser{err: errors.New("boom")}
	r := NewWithParser(p)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, r.Resolve("10 minutes", time.UTC, now).Accepted())
	require.True(t, r.Resolve("2025-10-10", time.UTC, now).Accepted())
	assert.Zero(t, p.calls)
}

func TestResolveNaturalRejections(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		parser *fakeParser
	}{
		{"error", &fakeParser{err: errors.New("no match")}},
		{"nil result", &fakeParser{}},
		{"past", &fakeParser{at: &past}},
		{"equal to now", &fakeParser{at: &now}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewWithParser(tt.parser).Resolve("some day", time.UTC, now)
			assert.Equal(t, ReasonPastOrUnparseable, out.Reason)
			assert.Equal(t, DetailPastOrUnparseable, out.Detail)
		})
	}
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "past_date", ReasonPastDate.String())
	assert.Equal(t, "unrecognized", ReasonUnrecognized.String())
	assert.Equal(t, "reason(42)", Reason(42).String())
}

func TestResolveLeapDayWithoutYear(t *testing.T) {
	r := NewWithParser(nil)

	tests := []struct {
		input string
		now   time.Time
		want  time.Time
	}{
		{"Feb 29", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"29 February 9:00", time.Date(2027, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2028, 2, 29, 9, 0, 0, 0, time.UTC)},
		{"feb 29", time.Date(2028, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"Feb 29", time.Date(2096, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2104, 2, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := r.Resolve(tt.input, time.UTC, tt.now)
			require.True(t, out.Accepted(), out.Detail)
			assert.Equal(t, tt.want, out.At)
		})
	}

	out := NewWithParser(&fakeParser{}).Resolve("2025-02-29", time.UTC, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, out.Accepted())
}
