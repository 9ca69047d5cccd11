package handler

// presets.go manages saved filter presets: scope-aware CRUD, the single
// favorite per scope, and applying a preset to the current session.  The
// list response reports which preset matches the session's current filters
// so clients can highlight it without comparing filter payloads themselves.

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/mikino-app/mikino-server/internal/filter"
    "github.com/mikino-app/mikino-server/internal/model"
    "github.com/mikino-app/mikino-server/internal/preset"
    "github.com/mikino-app/mikino-server/internal/repository"
    "github.com/mikino-app/mikino-server/internal/session"
)

// PresetHandler bundles the preset repository with session state.
type PresetHandler struct {
    Presets  *repository.PresetRepo
    Sessions *session.Manager
}

func NewPresetHandler(p *repository.PresetRepo, sm *session.Manager) *PresetHandler {
    return &PresetHandler{Presets: p, Sessions: sm}
}

func scopeParam(c echo.Context) string {
    scope := strings.ToUpper(strings.TrimSpace(c.QueryParam("scope")))
    if scope == "" {
        scope = model.ScopeShowtimes
    }
    return scope
}

// List returns the caller's presets for a scope plus the ID of the preset
// whose filters match the session's current selection, if any.
func (h *PresetHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    presets, err := h.Presets.ListByScope(ctx, uid, scopeParam(c))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    var activeID *uint64
    us := h.Sessions.ForUser(uid)
    if sel, err := session.LoadSelection(ctx, us.Store); err == nil {
        if active := preset.FindActive(sel, presets); active != nil {
            activeID = &active.ID
        }
    }

    return c.JSON(http.StatusOK, echo.Map{
        "items":            presets,
        "active_preset_id": activeID,
    })
}

type savePresetReq struct {
    ID         uint64           `json:"id"`
    Name       string           `json:"name"`
    Scope      string           `json:"scope"`
    IsFavorite bool             `json:"is_favorite"`
    Filters    filter.Selection `json:"filters"`
}

// Save creates or updates a preset.  The filter payload is normalized
// before persisting so representation differences never produce duplicate
// presets with identical meaning.
func (h *PresetHandler) Save(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req savePresetReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    scope := strings.ToUpper(strings.TrimSpace(req.Scope))
    if scope == "" {
        scope = model.ScopeShowtimes
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p := model.FilterPreset{
        ID:         req.ID,
        UserID:     uid,
        Name:       req.Name,
        Scope:      scope,
        IsFavorite: req.IsFavorite,
        Filters:    req.Filters,
    }
    if err := h.Presets.Save(ctx, &p); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
    }
    if req.IsFavorite {
        if err := h.Presets.SetFavorite(ctx, uid, p.ID); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set favorite failed"})
        }
        p.IsFavorite = true
    }
    return c.JSON(http.StatusCreated, p)
}

// Delete removes a preset owned by the caller.
func (h *PresetHandler) Delete(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid preset id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Presets.Delete(ctx, uid, id); err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "preset not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Favorite marks one preset as the favorite for its scope, clearing any
// previous favorite.
func (h *PresetHandler) Favorite(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid preset id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Presets.SetFavorite(ctx, uid, id); err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "preset not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Apply copies a preset's filters into the caller's session, one dimension
// at a time, through the reconciler so the usual selected/applied promotion
// rules hold.
func (h *PresetHandler) Apply(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid preset id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    presets, err := h.Presets.ListByScope(ctx, uid, scopeParam(c))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    var target *model.FilterPreset
    for i := range presets {
        if presets[i].ID == id {
            target = &presets[i]
            break
        }
    }
    if target == nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "preset not found"})
    }

    us := h.Sessions.ForUser(uid)
    for _, dim := range session.Dimensions() {
        us.Reconciler.SetSelected(dim, session.EncodeDimension(target.Filters, dim))
    }
    return c.JSON(http.StatusOK, echo.Map{"applied_preset_id": id, "filters": target.Filters})
}
