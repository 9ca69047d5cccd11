package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/mikino-app/mikino-server/internal/config"
)

func cacheTestContext(t *testing.T, target, userID string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/showtimes")
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c
}

func userScopedCfg() config.CacheConfig {
	return config.CacheConfig{
		Prefix:      "mikino:cache",
		KeyStrategy: "user_route_query",
	}
}

func TestUserScopedKeysLiveUnderPurgeablePrefix(t *testing.T) {
	cfg := userScopedCfg()
	c := cacheTestContext(t, "/v1/showtimes?status=going", "42")

	key := cacheKeyFrom(cfg, c)
	assert.True(t, strings.HasPrefix(key, userCachePrefix(cfg, "42")),
		"every key of one user must share the prefix a purge scans for")
}

func TestUserScopedKeysDifferPerUser(t *testing.T) {
	cfg := userScopedCfg()
	a := cacheKeyFrom(cfg, cacheTestContext(t, "/v1/showtimes", "42"))
	b := cacheKeyFrom(cfg, cacheTestContext(t, "/v1/showtimes", "43"))
	assert.NotEqual(t, a, b)
}

func TestUserScopedKeysDifferPerQuery(t *testing.T) {
	cfg := userScopedCfg()
	a := cacheKeyFrom(cfg, cacheTestContext(t, "/v1/showtimes?status=going", "42"))
	b := cacheKeyFrom(cfg, cacheTestContext(t, "/v1/showtimes?status=interested", "42"))
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, userCachePrefix(cfg, "42")))
	assert.True(t, strings.HasPrefix(b, userCachePrefix(cfg, "42")))
}

func TestJWTNumericSubjectScopesKey(t *testing.T) {
	// JWT numeric claims decode as float64; the key builder must still
	// resolve them to the user segment rather than "anon".
	cfg := userScopedCfg()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/showtimes", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/showtimes")
	c.Set("user_id", float64(42))

	key := cacheKeyFrom(cfg, c)
	assert.True(t, strings.HasPrefix(key, userCachePrefix(cfg, "42")))
}

func TestPurgeUserCacheNilClientIsNoop(t *testing.T) {
	assert.NoError(t, PurgeUserCache(context.Background(), userScopedCfg(), nil, "42"))
}
