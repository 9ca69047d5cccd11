package handler

// showtimes.go serves the browse surface: the filtered showtime list, a
// single showtime with its friend reactions, attendance updates and the
// cinema list backing the filter sheet.  Browsing consults the caller's
// session filters when the request carries no explicit filter parameters,
// and a favorite preset seeds untouched session dimensions the first time a
// user browses after logging in.

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/mikino-app/mikino-server/internal/filter"
    "github.com/mikino-app/mikino-server/internal/model"
    "github.com/mikino-app/mikino-server/internal/preset"
    "github.com/mikino-app/mikino-server/internal/repository"
    "github.com/mikino-app/mikino-server/internal/session"
)

// ShowtimeHandler bundles the repositories and session state backing the
// browse endpoints.
type ShowtimeHandler struct {
    Showtimes  *repository.ShowtimeRepo
    Attendance *repository.AttendanceRepo
    Presets    *repository.PresetRepo
    Sessions   *session.Manager

    // Invalidate drops the user's cached browse responses after a write
    // that changes them.  Nil when response caching is disabled.
    Invalidate func(ctx context.Context, userID uint64)

    mu      sync.Mutex
    seeders map[uint64]*preset.Seeder
}

func NewShowtimeHandler(st *repository.ShowtimeRepo, at *repository.AttendanceRepo, pr *repository.PresetRepo, sm *session.Manager) *ShowtimeHandler {
    return &ShowtimeHandler{
        Showtimes:  st,
        Attendance: at,
        Presets:    pr,
        Sessions:   sm,
        seeders:    make(map[uint64]*preset.Seeder),
    }
}

// seederFor returns the per-user favorite seeder, creating it on first use.
// One seeder per user keeps the auto-apply one-shot for the whole session.
func (h *ShowtimeHandler) seederFor(uid uint64, st session.Store) *preset.Seeder {
    h.mu.Lock()
    defer h.mu.Unlock()
    s, ok := h.seeders[uid]
    if !ok {
        s = preset.NewSeeder(st)
        h.seeders[uid] = s
    }
    return s
}

// Browse lists upcoming showtimes filtered by the caller's selection.
// Filter query parameters override the matching session dimension; absent
// parameters fall back to whatever the session holds.
func (h *ShowtimeHandler) Browse(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    us := h.Sessions.ForUser(uid)

    // First browse after login: copy the favorite preset into any session
    // dimension the user has not touched yet.
    if fav, ferr := h.Presets.Favorite(ctx, uid, model.ScopeShowtimes); ferr == nil && fav != nil {
        seeder := h.seederFor(uid, us.Store)
        for _, dim := range seeder.SeedFromFavorite(ctx, fav) {
            us.Reconciler.Seed(dim, session.EncodeDimension(fav.Filters, dim))
        }
    }

    sel, err := session.LoadSelection(ctx, us.Store)
    if err != nil {
        c.Logger().Warnf("load session filters for user=%d: %v", uid, err)
        sel = filter.Normalize(filter.Selection{})
    }
    sel = applyQueryOverrides(c, sel)

    page, pageSize := pageParams(c)
    rows, total, err := h.Showtimes.Browse(ctx, repository.ShowtimeQuery{
        UserID:    uid,
        Selection: sel,
        Page:      page,
        PageSize:  pageSize,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "items":     rows,
        "total":     total,
        "page":      page,
        "page_size": pageSize,
        "filters":   filter.Normalize(sel),
    })
}

// applyQueryOverrides replaces single dimensions of the session selection
// with values from query parameters.  Unknown or malformed values leave a
// dimension unrestricted, matching the permissive normalizer.
func applyQueryOverrides(c echo.Context, sel filter.Selection) filter.Selection {
    if v := c.QueryParam("status"); v != "" {
        sel.Status = filter.ParseStatus(v)
    }
    if v := c.QueryParam("audience"); v != "" {
        sel.Audience = filter.ParseAudience(v)
    }
    if v := c.QueryParam("watchlist_only"); v != "" {
        sel.WatchlistOnly = v == "true" || v == "1"
    }
    if v := c.QueryParam("cinema_ids"); v != "" {
        ids := []uint64{}
        for _, p := range strings.Split(v, ",") {
            if n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil && n > 0 {
                ids = append(ids, n)
            }
        }
        sel.CinemaIDs = ids
    }
    if v := c.QueryParam("days"); v != "" {
        sel.Days = strings.Split(v, ",")
    }
    if v := c.QueryParam("time_range"); v != "" {
        sel.TimeRanges = []string{v}
    }
    if v := c.QueryParam("runtime_range"); v != "" {
        sel.RuntimeRanges = []string{v}
    }
    return filter.Normalize(sel)
}

// Get returns one showtime with the caller's friends' reactions.
func (h *ShowtimeHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    row, err := h.Showtimes.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    friends, err := h.Showtimes.FriendAttendance(ctx, uid, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "showtime": row,
        "friends":  friends,
    })
}

type attendanceReq struct {
    Status string `json:"status"`
}

// SetAttendance records or clears the caller's reaction to a showtime.  An
// empty or "NONE" status clears it.
func (h *ShowtimeHandler) SetAttendance(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var req attendanceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    status := strings.ToUpper(strings.TrimSpace(req.Status))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    switch status {
    case "", "NONE":
        if err := h.Attendance.Clear(ctx, uid, id); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
        }
        h.invalidateBrowse(ctx, uid)
        return c.NoContent(http.StatusNoContent)
    case model.AttendanceGoing, model.AttendanceInterested, model.AttendanceNotGoing:
        if err := h.Attendance.SetStatus(ctx, uid, id, status); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
        }
        h.invalidateBrowse(ctx, uid)
        return c.JSON(http.StatusOK, echo.Map{"showtime_id": id, "status": status})
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }
}

// invalidateBrowse drops cached browse pages after an attendance write; the
// next GET must reflect the new my_status.
func (h *ShowtimeHandler) invalidateBrowse(ctx context.Context, uid uint64) {
    if h.Invalidate != nil {
        h.Invalidate(ctx, uid)
    }
}

// FriendAttendance lists friends who reacted to a showtime.
func (h *ShowtimeHandler) FriendAttendance(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    friends, err := h.Showtimes.FriendAttendance(ctx, uid, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": friends})
}

// ListCinemas returns every cinema, ordered by name, for the filter sheet.
func (h *ShowtimeHandler) ListCinemas(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cinemas, err := h.Showtimes.ListCinemas(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": cinemas})
}
