package handler

// pings.go implements the ping inbox: sending a ping to friends for a
// showtime, listing the inbox grouped into one card per showtime, marking
// cards seen and dismissing them.  Sending publishes a ping.sent event so
// the notification consumer can fan out without blocking the request.

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/mikino-app/mikino-server/internal/ping"
    "github.com/mikino-app/mikino-server/internal/queue"
    "github.com/mikino-app/mikino-server/internal/repository"
    queue_publisher "github.com/mikino-app/mikino-server/internal/service"
)

// PingHandler bundles the repositories backing the ping endpoints.
type PingHandler struct {
    Pings   *repository.PingRepo
    Friends *repository.FriendRepo
}

func NewPingHandler(p *repository.PingRepo, f *repository.FriendRepo) *PingHandler {
    return &PingHandler{Pings: p, Friends: f}
}

type sendPingReq struct {
    ShowtimeID   uint64   `json:"showtime_id"`
    RecipientIDs []uint64 `json:"recipient_ids"`
}

// Send creates one ping per recipient.  Recipients must be friends of the
// sender; non-friends in the list are reported back as skipped rather than
// failing the whole request.
func (h *PingHandler) Send(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req sendPingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.ShowtimeID == 0 || len(req.RecipientIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id and recipient_ids required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    sent := []echo.Map{}
    skipped := []uint64{}
    for _, rid := range req.RecipientIDs {
        if rid == uid {
            skipped = append(skipped, rid)
            continue
        }
        ok, err := h.Friends.AreFriends(ctx, uid, rid)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        if !ok {
            skipped = append(skipped, rid)
            continue
        }
        p, err := h.Pings.Create(ctx, req.ShowtimeID, uid, rid)
        if err != nil {
            if err == repository.ErrNotFound {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ping failed"})
        }
        sent = append(sent, echo.Map{"ping_id": p.ID, "recipient_id": rid})

        // Fan-out is best effort; a broker outage never fails the request.
        if err := queue_publisher.PublishPingSent(ctx, queue.PingSentEvent{
            PingID:      p.ID,
            ShowtimeID:  p.ShowtimeID,
            MovieID:     p.MovieID,
            MovieTitle:  p.MovieTitle,
            CinemaName:  p.CinemaName,
            StartsAt:    p.StartsAt,
            SenderID:    p.Sender.ID,
            SenderName:  p.Sender.DisplayName,
            RecipientID: rid,
            SentAt:      p.CreatedAt,
        }); err != nil {
            c.Logger().Warnf("publish ping.sent for ping=%s: %v", p.ID, err)
        }
    }

    if len(sent) == 0 {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no recipients are friends", "skipped": skipped})
    }
    return c.JSON(http.StatusCreated, echo.Map{"sent": sent, "skipped": skipped})
}

// List returns the caller's ping inbox grouped into one card per showtime.
// `hidden` is a comma separated list of ping IDs the client has dismissed
// locally; `sort` selects "latest" (default) or "showtime" ordering.
func (h *PingHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    pings, err := h.Pings.ListForRecipient(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    hidden := map[string]struct{}{}
    if raw := c.QueryParam("hidden"); raw != "" {
        for _, id := range strings.Split(raw, ",") {
            if id = strings.TrimSpace(id); id != "" {
                hidden[id] = struct{}{}
            }
        }
    }
    mode := ping.ParseSortMode(c.QueryParam("sort"))

    cards := ping.Aggregate(pings, hidden, mode)
    return c.JSON(http.StatusOK, echo.Map{"items": cards})
}

// MarkSeen marks every ping for one showtime as seen.
func (h *PingHandler) MarkSeen(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "showtime_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    n, err := h.Pings.MarkSeenByShowtime(ctx, uid, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"seen": n})
}

// Dismiss deletes a single ping from the caller's inbox.
func (h *PingHandler) Dismiss(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    pingID := strings.TrimSpace(c.Param("id"))
    if pingID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ping id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Pings.Delete(ctx, uid, pingID); err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ping not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// DismissShowtime deletes every ping for one showtime, dismissing the whole
// card at once.
func (h *PingHandler) DismissShowtime(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "showtime_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    n, err := h.Pings.DeleteByShowtime(ctx, uid, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
