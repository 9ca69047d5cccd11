package model

import (
	"time"

	"github.com/mikino-app/mikino-server/internal/filter"
)

// ScopeShowtimes is the preset scope for the showtime browse screen.
// Scopes namespace presets per screen; only one favorite per scope is
// meaningful.
const ScopeShowtimes = "SHOWTIMES"

// FilterPreset is a named, server-persisted snapshot of a filter selection.
// Presets are read-only from the client's perspective except for explicit
// save, delete and set-favorite operations; which preset is "active" is
// never stored, it is derived by signature comparison against the current
// session selection.
type FilterPreset struct {
	ID         uint64           `json:"id"`          // filter_presets.id
	UserID     uint64           `json:"-"`           // filter_presets.user_id
	Name       string           `json:"name"`        // filter_presets.name
	Scope      string           `json:"scope"`       // filter_presets.scope
	IsFavorite bool             `json:"is_favorite"` // filter_presets.is_favorite
	Filters    filter.Selection `json:"filters"`     // filter_presets.filters (JSON column)
	CreatedAt  time.Time        `json:"created_at"`  // filter_presets.created_at
	UpdatedAt  time.Time        `json:"updated_at"`  // filter_presets.updated_at
}
