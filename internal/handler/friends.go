package handler

// friends.go implements the friend graph endpoints: listing friends,
// sending a request by email, listing incoming requests and resolving them.

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/mikino-app/mikino-server/internal/repository"
)

// FriendHandler bundles the repositories backing the friend endpoints.
type FriendHandler struct {
    Friends *repository.FriendRepo
    Users   *repository.UserRepo
}

func NewFriendHandler(f *repository.FriendRepo, u *repository.UserRepo) *FriendHandler {
    return &FriendHandler{Friends: f, Users: u}
}

// List returns the caller's friends ordered by display name.
func (h *FriendHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    friends, err := h.Friends.ListFriends(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": friends})
}

type friendRequestReq struct {
    Email string `json:"email"`
}

// Request sends a friend request to the user registered under the given
// email.  Duplicate requests and existing friendships are conflicts.
func (h *FriendHandler) Request(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req friendRequestReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    email := strings.ToLower(strings.TrimSpace(req.Email))
    if email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    target, err := h.Users.SearchByEmail(ctx, email)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no user with that email"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if target.ID == uid {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot befriend yourself"})
    }

    reqID, err := h.Friends.CreateRequest(ctx, uid, target.ID)
    if err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "request or friendship already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"request_id": reqID, "to_user_id": target.ID})
}

// Pending lists incoming friend requests awaiting the caller's decision.
func (h *FriendHandler) Pending(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    reqs, err := h.Friends.PendingFor(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": reqs})
}

// Accept resolves an incoming request and creates the friendship in both
// directions.
func (h *FriendHandler) Accept(c echo.Context) error {
    return h.resolve(c, true)
}

// Decline resolves an incoming request without creating a friendship.
func (h *FriendHandler) Decline(c echo.Context) error {
    return h.resolve(c, false)
}

func (h *FriendHandler) resolve(c echo.Context, accept bool) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := idParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if accept {
        err = h.Friends.Accept(ctx, uid, id)
    } else {
        err = h.Friends.Decline(ctx, uid, id)
    }
    if err != nil {
        switch err {
        case repository.ErrNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your request"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
        }
    }
    return c.NoContent(http.StatusNoContent)
}
