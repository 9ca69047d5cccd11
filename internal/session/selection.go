package session

import (
	"context"
	"strconv"
	"strings"

	"github.com/mikino-app/mikino-server/internal/filter"
)

// Session-store values are flat strings, one key per dimension, so a single
// dimension can be written (or seeded) without touching the others.  List
// dimensions use comma separation; none of the element formats (ISO dates,
// "HH:MM-HH:MM", numeric IDs) can contain a comma.

// EncodeDimension renders one dimension of a normalized selection as its
// store string.
func EncodeDimension(n filter.Selection, dim Dimension) string {
	switch dim {
	case DimStatus:
		return string(n.Status)
	case DimAudience:
		return string(n.Audience)
	case DimWatchlistOnly:
		return strconv.FormatBool(n.WatchlistOnly)
	case DimCinemas:
		parts := make([]string, len(n.CinemaIDs))
		for i, id := range n.CinemaIDs {
			parts[i] = strconv.FormatUint(id, 10)
		}
		return strings.Join(parts, ",")
	case DimDays:
		return strings.Join(n.Days, ",")
	case DimTimeRanges:
		return strings.Join(n.TimeRanges, ",")
	case DimRuntimeRanges:
		return strings.Join(n.RuntimeRanges, ",")
	}
	return ""
}

// DecodeDimension parses a store string back into the corresponding field
// of sel.  Malformed values degrade to the dimension's permissive default;
// Normalize applied afterwards finishes the cleanup.
func DecodeDimension(sel *filter.Selection, dim Dimension, value string) {
	switch dim {
	case DimStatus:
		sel.Status = filter.ParseStatus(value)
	case DimAudience:
		sel.Audience = filter.ParseAudience(value)
	case DimWatchlistOnly:
		b, err := strconv.ParseBool(value)
		sel.WatchlistOnly = err == nil && b
	case DimCinemas:
		for _, part := range splitCSV(value) {
			if id, err := strconv.ParseUint(part, 10, 64); err == nil {
				sel.CinemaIDs = append(sel.CinemaIDs, id)
			}
		}
	case DimDays:
		sel.Days = splitCSV(value)
	case DimTimeRanges:
		sel.TimeRanges = splitCSV(value)
	case DimRuntimeRanges:
		sel.RuntimeRanges = splitCSV(value)
	}
}

// LoadSelection assembles a normalized selection from the populated
// dimension keys of a store.  Missing keys keep their permissive zero
// values.
func LoadSelection(ctx context.Context, st Store) (filter.Selection, error) {
	var sel filter.Selection
	for _, dim := range Dimensions() {
		v, ok, err := st.Get(ctx, StoreKey(dim))
		if err != nil {
			return filter.Selection{}, err
		}
		if !ok {
			continue
		}
		DecodeDimension(&sel, dim, v)
	}
	return filter.Normalize(sel), nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
