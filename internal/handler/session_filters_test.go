package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikino-app/mikino-server/internal/session"
)

// newFilterContext builds an echo context carrying an authenticated user,
// the way JWTAuth leaves it after validating a token.
func newFilterContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/v1/session/filters", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/v1/session/filters", nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "42")
	return c, rec
}

func TestSessionFiltersPutThenGet(t *testing.T) {
	// A very short coalescing window so applied catches up within the test.
	sm := session.NewManager(nil, time.Hour, time.Millisecond)
	defer sm.Shutdown()
	h := NewSessionFilterHandler(sm)

	c, rec := newFilterContext(t, http.MethodPut, `{"status":"going","days":"2024-05-01,2024-05-02"}`)
	require.NoError(t, h.Put(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var putResp struct {
		Updated  []string          `json:"updated"`
		Skipped  []string          `json:"skipped"`
		Selected map[string]string `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &putResp))
	assert.ElementsMatch(t, []string{"status", "days"}, putResp.Updated)
	assert.Empty(t, putResp.Skipped)
	assert.Equal(t, "going", putResp.Selected["status"])

	// The selected side is visible immediately; the applied side follows
	// after the coalescing delay.
	time.Sleep(50 * time.Millisecond)

	c, rec = newFilterContext(t, http.MethodGet, "")
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var getResp struct {
		Selected map[string]string `json:"selected"`
		Applied  map[string]string `json:"applied"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &getResp))
	assert.Equal(t, "going", getResp.Applied["status"])
	assert.Equal(t, getResp.Selected, getResp.Applied)
}

func TestSessionFiltersPutUnknownDimensionSkipped(t *testing.T) {
	sm := session.NewManager(nil, time.Hour, time.Millisecond)
	defer sm.Shutdown()
	h := NewSessionFilterHandler(sm)

	c, rec := newFilterContext(t, http.MethodPut, `{"status":"interested","popcorn":"large"}`)
	require.NoError(t, h.Put(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Updated []string `json:"updated"`
		Skipped []string `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"status"}, resp.Updated)
	assert.Equal(t, []string{"popcorn"}, resp.Skipped)
}

func TestSessionFiltersPutEmptyBodyRejected(t *testing.T) {
	sm := session.NewManager(nil, time.Hour, time.Millisecond)
	defer sm.Shutdown()
	h := NewSessionFilterHandler(sm)

	c, rec := newFilterContext(t, http.MethodPut, `{}`)
	require.NoError(t, h.Put(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionFiltersRequireUser(t *testing.T) {
	sm := session.NewManager(nil, time.Hour, time.Millisecond)
	defer sm.Shutdown()
	h := NewSessionFilterHandler(sm)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/session/filters", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
