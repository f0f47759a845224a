package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayOfLocalBoundary(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)

	lateNight := time.Date(2026, 3, 9, 23, 59, 0, 0, zone)
	earlyMorning := time.Date(2026, 3, 10, 0, 1, 0, 0, zone)

	// Two minutes apart, but different calendar days.
	require.Equal(t, 1, DayOf(earlyMorning).Sub(DayOf(lateNight)))
}

func TestDayOfExactly24hApart(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	first := time.Date(2026, 3, 9, 21, 0, 0, 0, zone)
	second := first.Add(24 * time.Hour)

	// Exactly 24h apart crossing midnight: consecutive days.
	require.Equal(t, DayOf(first).AddDays(1), DayOf(second))
}

func TestDayOfUsesOwnLocation(t *testing.T) {
	// The same instant is a different calendar day in different zones.
	instant := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)
	west := instant.In(time.FixedZone("UTC-8", -8*60*60))

	require.Equal(t, "2026-03-10", DayOf(instant).String())
	require.Equal(t, "2026-03-09", DayOf(west).String())
}

func TestParseDayRoundTrip(t *testing.T) {
	d, err := ParseDay("2026-08-31")
	require.NoError(t, err)
	require.Equal(t, "2026-08-31", d.String())

	_, err = ParseDay("31/08/2026")
	require.Error(t, err)
	_, err = ParseDay("")
	require.Error(t, err)
}

func TestDayArithmetic(t *testing.T) {
	d, err := ParseDay("2026-02-28")
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", d.AddDays(1).String())
	require.True(t, d.Before(d.AddDays(1)))
	require.True(t, d.AddDays(1).After(d))
	require.Equal(t, 7, d.AddDays(7).Sub(d))
}

func TestDayJSONMapKey(t *testing.T) {
	d, err := ParseDay("2026-08-31")
	require.NoError(t, err)

	in := map[Day]int{d: 3, d.AddDays(-1): 1}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"2026-08-31":3`)

	var out map[Day]int
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in, out)
}

func TestDayScanValue(t *testing.T) {
	d, err := ParseDay("2026-08-31")
	require.NoError(t, err)

	v, err := d.Value()
	require.NoError(t, err)
	require.Equal(t, "2026-08-31", v)

	var scanned Day
	require.NoError(t, scanned.Scan("2026-08-31"))
	require.Equal(t, d, scanned)
	require.NoError(t, scanned.Scan([]byte("2026-09-01")))
	require.Equal(t, d.AddDays(1), scanned)
	require.NoError(t, scanned.Scan(time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)))
	require.Equal(t, d, scanned)
	require.Error(t, scanned.Scan(42))
}
