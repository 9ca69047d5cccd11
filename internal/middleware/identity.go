package middleware

// identity.go defines helpers shared across middleware files.  currentUserID
// pulls the subject claim that JWTAuth stored in the Echo context; cache and
// rate-limit key builders use it to scope entries per user.  When no user is
// authenticated "anon" is returned.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user identifier from context.  It
// returns "anon" when the request carries no valid token.  JWT numeric
// claims decode as float64, so numeric forms are handled alongside strings.
func currentUserID(c echo.Context) string {
    for _, key := range []string{"user_id", "userID"} {
        switch v := c.Get(key).(type) {
        case string:
            if v != "" {
                return v
            }
        case float64:
            return strconv.FormatUint(uint64(v), 10)
        case uint64:
            return strconv.FormatUint(v, 10)
        case int64:
            return strconv.FormatInt(v, 10)
        case int:
            return strconv.Itoa(v)
        }
    }
    return "anon"
}
