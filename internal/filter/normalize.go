package filter

import (
	"encoding/json"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Normalize canonicalizes a selection so that two semantically equal
// selections produce identical values: enum fields are parsed with
// defaults, list fields are deduplicated and ordered, nil and empty lists
// collapse to the same empty (non-nil) slice, and malformed range strings
// degrade to "no restriction".  Normalize is idempotent and never fails;
// bad input always yields a more permissive filter, not an error.
func Normalize(raw Selection) Selection {
	return Selection{
		Status:        ParseStatus(string(raw.Status)),
		Audience:      ParseAudience(string(raw.Audience)),
		WatchlistOnly: raw.WatchlistOnly,
		CinemaIDs:     normalizeCinemaIDs(raw.CinemaIDs),
		Days:          NormalizeDays(raw.Days),
		TimeRanges:    NormalizeSingleSelection(raw.TimeRanges, ValidTimeRange),
		RuntimeRanges: NormalizeSingleSelection(raw.RuntimeRanges, ValidRuntimeRange),
	}
}

// Signature serializes the normalized selection into a stable string so
// equality between selections (and against saved presets) is plain string
// comparison.  JSON key order follows the struct definition, so the output
// is deterministic for equal inputs.
func (s Selection) Signature() string {
	n := Normalize(s)
	b, err := json.Marshal(n)
	if err != nil {
		// Marshal of this struct cannot fail; keep the defect visible in
		// logs rather than panicking inside a request path.
		log.Printf("filter: signature marshal failed: %v", err)
		return ""
	}
	return string(b)
}

// Equal reports whether two selections are semantically equal after
// normalization.
func Equal(a, b Selection) bool {
	return a.Signature() == b.Signature()
}

// NormalizeDays deduplicates and sorts a day list.  Dates are fixed-width
// ISO "YYYY-MM-DD" strings, so lexicographic order is chronological order.
// nil and empty input both normalize to an empty list.
func NormalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// NormalizeSingleSelection keeps only the first valid range from a list.
// The filter UI allows a single active custom range, so any extras are
// dropped rather than combined, and malformed entries count as no
// restriction.
func NormalizeSingleSelection(ranges []string, valid func(string) bool) []string {
	for _, r := range ranges {
		if valid(r) {
			return []string{r}
		}
	}
	return []string{}
}

func normalizeCinemaIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// splitRange splits a "<start>-<end>" range string.  An empty start or end
// means that bound is open; "-" with both bounds empty carries no filtering
// information and is rejected.
func splitRange(s string) (start, end string, ok bool) {
	start, end, ok = strings.Cut(s, "-")
	if !ok || (start == "" && end == "") {
		return "", "", false
	}
	return start, end, true
}

// ValidTimeRange reports whether s is a well-formed "HH:MM-HH:MM" window.
// Either bound may be empty to leave that side open.
func ValidTimeRange(s string) bool {
	start, end, ok := splitRange(s)
	if !ok {
		return false
	}
	if start != "" {
		if _, ok := ClockMinutes(start); !ok {
			return false
		}
	}
	if end != "" {
		if _, ok := ClockMinutes(end); !ok {
			return false
		}
	}
	return true
}

// ValidRuntimeRange reports whether s is a well-formed "<min>-<max>" runtime
// window with non-negative integer minute bounds.
func ValidRuntimeRange(s string) bool {
	start, end, ok := splitRange(s)
	if !ok {
		return false
	}
	if start != "" {
		if n, err := strconv.Atoi(start); err != nil || n < 0 {
			return false
		}
	}
	if end != "" {
		if n, err := strconv.Atoi(end); err != nil || n < 0 {
			return false
		}
	}
	return true
}

// ClockMinutes parses a "HH:MM" clock string into minutes since midnight.
func ClockMinutes(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// TimeRangeBounds returns the validated bounds of a time range.  An empty
// bound string means that side is open.  ok is false for malformed input.
func TimeRangeBounds(s string) (start, end string, ok bool) {
	if !ValidTimeRange(s) {
		return "", "", false
	}
	start, end, _ = splitRange(s)
	return start, end, true
}

// RuntimeBounds returns the validated numeric bounds of a runtime range in
// minutes.  hasMin/hasMax report which sides are bounded; both are false
// for malformed input.
func RuntimeBounds(s string) (min, max int, hasMin, hasMax bool) {
	if !ValidRuntimeRange(s) {
		return 0, 0, false, false
	}
	start, end, _ := splitRange(s)
	if start != "" {
		min, _ = strconv.Atoi(start)
		hasMin = true
	}
	if end != "" {
		max, _ = strconv.Atoi(end)
		hasMax = true
	}
	return min, max, hasMin, hasMax
}
