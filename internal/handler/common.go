package handler // handler defines http handlers

import (
    "errors"       // sentinel values used in getUserID
    "strconv"      // string-to-numeric conversion

    "github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pageParams reads page/page_size query parameters with clamping.  Page
// numbers start at 1; page size defaults to 20 and is capped at 100.
func pageParams(c echo.Context) (page, pageSize int) {
    page = 1
    pageSize = 20
    if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
        page = v
    }
    if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
        pageSize = v
    }
    if pageSize > 100 {
        pageSize = 100
    }
    return page, pageSize
}

// idParam parses a numeric path parameter, returning 0 and false when it is
// missing or malformed.
func idParam(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}
