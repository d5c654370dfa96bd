package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func decodeStatus(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decodeStatus(t, rr)["status"])
}

func TestReadyz(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("down") })

	cases := []struct {
		name   string
		db     Pinger
		redis  Pinger
		status int
		errMsg string
	}{
		{"all up", ok, ok, http.StatusOK, ""},
		{"no redis configured", ok, nil, http.StatusOK, ""},
		{"db down", down, ok, http.StatusServiceUnavailable, "database unavailable"},
		{"redis down", ok, down, http.StatusServiceUnavailable, "redis unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHealthHandler(tc.db, tc.redis).Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tc.status, rr.Code)
			body := decodeStatus(t, rr)
			if tc.errMsg == "" {
				assert.Equal(t, "ready", body["status"])
			} else {
				assert.Equal(t, tc.errMsg, body["error"])
			}
		})
	}
}
