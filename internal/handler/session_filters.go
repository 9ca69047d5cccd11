package handler

// session_filters.go exposes the caller's session filter state.  A client
// edits one dimension at a time; each edit lands in the reconciler, which
// promotes it to the applied side after the coalescing delay.  Reads return
// both sides so clients can render the pending selection while results for
// the applied one are still on screen.

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/mikino-app/mikino-server/internal/filter"
    "github.com/mikino-app/mikino-server/internal/session"
)

// SessionFilterHandler serves per-user filter state.
type SessionFilterHandler struct {
    Sessions *session.Manager
}

func NewSessionFilterHandler(sm *session.Manager) *SessionFilterHandler {
    return &SessionFilterHandler{Sessions: sm}
}

// Get returns the selected and applied filter state, both as raw dimension
// values and as decoded filter selections.
func (h *SessionFilterHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    us := h.Sessions.ForUser(uid)
    selected, applied := us.Reconciler.Snapshot()

    return c.JSON(http.StatusOK, echo.Map{
        "selected":         selected,
        "applied":          applied,
        "selected_filters": decodeSnapshot(selected),
        "applied_filters":  decodeSnapshot(applied),
    })
}

func decodeSnapshot(values map[session.Dimension]string) filter.Selection {
    var sel filter.Selection
    for dim, v := range values {
        session.DecodeDimension(&sel, dim, v)
    }
    return filter.Normalize(sel)
}

// Put updates one or more dimensions.  The body is a flat map of dimension
// name to encoded value; unknown dimensions are reported back and skipped.
func (h *SessionFilterHandler) Put(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body map[string]string
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if len(body) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no dimensions given"})
    }

    known := map[session.Dimension]struct{}{}
    for _, dim := range session.Dimensions() {
        known[dim] = struct{}{}
    }

    us := h.Sessions.ForUser(uid)
    updated := []string{}
    skipped := []string{}
    for name, value := range body {
        dim := session.Dimension(name)
        if _, ok := known[dim]; !ok {
            skipped = append(skipped, name)
            continue
        }
        us.Reconciler.SetSelected(dim, value)
        updated = append(updated, name)
    }

    selected, applied := us.Reconciler.Snapshot()
    return c.JSON(http.StatusOK, echo.Map{
        "updated":  updated,
        "skipped":  skipped,
        "selected": selected,
        "applied":  applied,
    })
}
