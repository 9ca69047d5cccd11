package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdempotent(t *testing.T) {
	raw := Selection{
		Status:        "going",
		Audience:      "bogus",
		WatchlistOnly: true,
		CinemaIDs:     []uint64{3, 1, 3},
		Days:          []string{"2024-05-01", "2024-05-01", "2024-04-01"},
		TimeRanges:    []string{"09:00-12:00", "13:00-15:00"},
		RuntimeRanges: []string{"90-120"},
	}
	once := Normalize(raw)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, once.Signature(), twice.Signature())
}

func TestNormalizeDays(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil is empty", nil, []string{}},
		{"empty is empty", []string{}, []string{}},
		{"dedup and sort", []string{"2024-05-01", "2024-05-01", "2024-04-01"}, []string{"2024-04-01", "2024-05-01"}},
		{"blank entries dropped", []string{"", "2024-04-01"}, []string{"2024-04-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDays(tt.in))
		})
	}
}

func TestNormalizeDaysOrderInsensitive(t *testing.T) {
	a := Normalize(Selection{Days: []string{"2024-05-01", "2024-05-01", "2024-04-01"}})
	b := Normalize(Selection{Days: []string{"2024-04-01", "2024-05-01"}})
	assert.Equal(t, a.Signature(), b.Signature())
}

func TestNormalizeSingleSelection(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"keeps first of many", []string{"09:00-12:00", "13:00-15:00"}, []string{"09:00-12:00"}},
		{"nil means no restriction", nil, []string{}},
		{"both bounds empty rejected", []string{"-"}, []string{}},
		{"open start allowed", []string{"-12:00"}, []string{"-12:00"}},
		{"open end allowed", []string{"09:00-"}, []string{"09:00-"}},
		{"malformed skipped for next valid", []string{"nonsense", "09:00-12:00"}, []string{"09:00-12:00"}},
		{"all malformed means no restriction", []string{"nonsense", "also bad"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSingleSelection(tt.in, ValidTimeRange))
		})
	}
}

func TestValidRuntimeRange(t *testing.T) {
	assert.True(t, ValidRuntimeRange("90-120"))
	assert.True(t, ValidRuntimeRange("-120"))
	assert.True(t, ValidRuntimeRange("90-"))
	assert.False(t, ValidRuntimeRange("-"))
	assert.False(t, ValidRuntimeRange("short-long"))
	assert.False(t, ValidRuntimeRange("120"))
}

func TestParseWithDefault(t *testing.T) {
	assert.Equal(t, StatusGoing, ParseStatus("going"))
	assert.Equal(t, StatusAll, ParseStatus("GOING"))
	assert.Equal(t, StatusAll, ParseStatus(""))
	assert.Equal(t, AudienceOnlyYou, ParseAudience("only-you"))
	assert.Equal(t, AudienceIncludingFriends, ParseAudience("everyone"))
}

func TestSignatureNilVersusEmpty(t *testing.T) {
	// null/absent lists and empty lists are the same "no filter" state.
	a := Selection{}
	b := Selection{Days: []string{}, TimeRanges: []string{}, CinemaIDs: []uint64{}}
	assert.Equal(t, a.Signature(), b.Signature())
	assert.True(t, Equal(a, b))
}

func TestRangeBounds(t *testing.T) {
	start, end, ok := TimeRangeBounds("09:00-12:00")
	assert.True(t, ok)
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "12:00", end)

	_, _, ok = TimeRangeBounds("25:99-12:00")
	assert.False(t, ok)

	min, max, hasMin, hasMax := RuntimeBounds("-150")
	assert.False(t, hasMin)
	assert.True(t, hasMax)
	assert.Equal(t, 0, min)
	assert.Equal(t, 150, max)
}

func TestClockMinutes(t *testing.T) {
	m, ok := ClockMinutes("18:30")
	assert.True(t, ok)
	assert.Equal(t, 18*60+30, m)
	_, ok = ClockMinutes("18h30")
	assert.False(t, ok)
}
