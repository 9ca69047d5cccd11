// Package preset decides which saved filter preset, if any, matches the
// current session selection, and seeds session defaults from the favorite
// preset on session start.
package preset

import (
	"github.com/mikino-app/mikino-server/internal/filter"
	"github.com/mikino-app/mikino-server/internal/model"
)

// FindActive returns the first preset whose normalized filter signature
// equals the current selection's signature, or nil when the current filters
// are an unsaved combination.  nil is a valid steady state, not an error.
//
// Matching is by signature rather than by remembering which preset was last
// applied: presets can be created, edited or deleted from another device,
// and filters can be toggled back into exact agreement with a preset
// without selecting it.  Signature equality stays correct in all of those
// cases with no extra state to desynchronize.  When several presets share
// one signature the server's list order decides; the tie-break carries no
// meaning.
func FindActive(current filter.Selection, presets []model.FilterPreset) *model.FilterPreset {
	sig := current.Signature()
	for i := range presets {
		if presets[i].Filters.Signature() == sig {
			return &presets[i]
		}
	}
	return nil
}

// IsFavoriteApplied reports whether the favorite preset's filters exactly
// match the current selection.
func IsFavoriteApplied(current filter.Selection, favorite *model.FilterPreset) bool {
	if favorite == nil {
		return false
	}
	return favorite.Filters.Signature() == current.Signature()
}
