package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/mikino-app/mikino-server/internal/filter"
	"github.com/mikino-app/mikino-server/internal/model"
)

// PresetRepo persists named filter presets.  The filter payload is stored
// as a JSON column and normalized on the way in, so every stored preset
// already carries its canonical shape.
type PresetRepo struct {
	db *sql.DB
}

func NewPresetRepo(db *sql.DB) *PresetRepo {
	return &PresetRepo{db: db}
}

func scanPreset(row rowScanner) (model.FilterPreset, error) {
	var (
		p       model.FilterPreset
		filters []byte
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Scope, &p.IsFavorite, &filters, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	var sel filter.Selection
	if err := json.Unmarshal(filters, &sel); err != nil {
		// A corrupt payload degrades the preset to "no restriction" rather
		// than failing the whole list.
		log.Printf("preset repo: bad filters payload for preset %d: %v", p.ID, err)
	}
	p.Filters = filter.Normalize(sel)
	return p, nil
}

const presetSelect = `SELECT id, user_id, name, scope, is_favorite, filters, created_at, updated_at FROM filter_presets`

// ListByScope returns a user's presets for one scope in creation order,
// which is the list order active-preset matching iterates in.
func (r *PresetRepo) ListByScope(ctx context.Context, userID uint64, scope string) ([]model.FilterPreset, error) {
	rows, err := r.db.QueryContext(ctx,
		presetSelect+" WHERE user_id=? AND scope=? ORDER BY created_at ASC, id ASC",
		userID, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.FilterPreset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Favorite returns the user's favorite preset for a scope, or nil when no
// favorite is set.
func (r *PresetRepo) Favorite(ctx context.Context, userID uint64, scope string) (*model.FilterPreset, error) {
	row := r.db.QueryRowContext(ctx,
		presetSelect+" WHERE user_id=? AND scope=? AND is_favorite=1 LIMIT 1",
		userID, scope)
	p, err := scanPreset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save inserts a preset or, when the user already has one with the same
// name in the scope, replaces its filters.  The normalized payload is what
// gets stored.  The saved row is read back with its generated fields.
func (r *PresetRepo) Save(ctx context.Context, p *model.FilterPreset) error {
	p.Filters = filter.Normalize(p.Filters)
	payload, err := json.Marshal(p.Filters)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO filter_presets (user_id, name, scope, filters)
		 VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE filters=VALUES(filters)`,
		p.UserID, p.Name, p.Scope, payload)
	if err != nil {
		return err
	}
	row := r.db.QueryRowContext(ctx,
		presetSelect+" WHERE user_id=? AND scope=? AND name=? LIMIT 1",
		p.UserID, p.Scope, p.Name)
	saved, err := scanPreset(row)
	if err != nil {
		return err
	}
	*p = saved
	return nil
}

// Delete removes a preset the user owns.  ErrNotFound when the ID does not
// exist or belongs to someone else.
func (r *PresetRepo) Delete(ctx context.Context, userID, presetID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM filter_presets WHERE id=? AND user_id=?",
		presetID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFavorite marks one preset as the scope's favorite, clearing any
// previous favorite in the same scope inside a transaction so at most one
// favorite per scope survives.
func (r *PresetRepo) SetFavorite(ctx context.Context, userID, presetID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var scope string
	err = tx.QueryRowContext(ctx,
		"SELECT scope FROM filter_presets WHERE id=? AND user_id=?",
		presetID, userID).Scan(&scope)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE filter_presets SET is_favorite=0 WHERE user_id=? AND scope=? AND is_favorite=1",
		userID, scope); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE filter_presets SET is_favorite=1 WHERE id=? AND user_id=?",
		presetID, userID); err != nil {
		return err
	}
	return tx.Commit()
}
