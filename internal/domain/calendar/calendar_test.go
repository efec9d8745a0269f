package calendar

import (
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_UsesLocalCalendarFields(t *testing.T) {
	t.Parallel()

	saoPaulo := time.FixedZone("BRT", -3*60*60)
	// 01:30 UTC on the 2nd is still the evening of the 1st in BRT.
	instant := time.Date(2024, 3, 2, 1, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01", Normalize(instant, saoPaulo))
	assert.Equal(t, "2024-03-02", Normalize(instant, time.UTC))
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)
	for _, canonical := range []string{"2024-01-01", "2023-12-31", "2024-02-29", "1999-07-04"} {
		d, err := ParseDay(canonical, loc)
		require.NoError(t, err)

		again := Normalize(d.In(loc), loc)
		assert.Equal(t, canonical, again)

		d2, err := ParseDay(again, loc)
		require.NoError(t, err)
		assert.Equal(t, d, d2)
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name    string
		in      string
		want    civil.Date
		wantErr bool
	}{
		{name: "canonical", in: "2024-03-01", want: civil.Date{Year: 2024, Month: time.March, Day: 1}},
		{name: "padded", in: "  2024-03-01 ", want: civil.Date{Year: 2024, Month: time.March, Day: 1}},
		{name: "timestamp moved to local zone", in: "2024-03-02T01:30:00Z", want: civil.Date{Year: 2024, Month: time.March, Day: 1}},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "invalid day", in: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.in, loc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorrector(t *testing.T) {
	t.Parallel()

	d := civil.Date{Year: 2024, Month: time.February, Day: 28}

	assert.Equal(t, d, Corrector{}.Correct(d))
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 29}, Corrector{OffsetDays: 1}.Correct(d))
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 1}, Corrector{OffsetDays: 2}.Correct(d))
}

func TestRange(t *testing.T) {
	t.Parallel()

	start := civil.Date{Year: 2024, Month: time.March, Day: 1}
	end := civil.Date{Year: 2024, Month: time.March, Day: 3}

	r, err := NewRange(start, end)
	require.NoError(t, err)

	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(end))
	assert.True(t, r.Contains(start.AddDays(1)))
	assert.False(t, r.Contains(start.AddDays(-1)))
	assert.False(t, r.Contains(end.AddDays(1)))

	_, err = NewRange(end, start)
	assert.Error(t, err)

	assert.True(t, SingleDay(start).Contains(start))
	assert.False(t, SingleDay(start).Contains(end))
}

func TestTodayAndDaysBetween(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)

	today := Today(now, loc)
	assert.Equal(t, civil.Date{Year: 2023, Month: time.December, Day: 31}, today)
	assert.Equal(t, 1, DaysBetween(today, civil.Date{Year: 2024, Month: time.January, Day: 1}))
	assert.Equal(t, -1, DaysBetween(today, civil.Date{Year: 2023, Month: time.December, Day: 30}))
}
