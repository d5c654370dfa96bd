package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/account-portal/internal/infrastructure/redis"
)

// ---- fakes ----

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusTeapot)
}

type nextRecorder struct {
	calls     int
	accountID string
	requestID string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.accountID, _ = AccountIDFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

type fakeResolver struct {
	accountID string
	err       error
	gotToken  string
}

func (f *fakeResolver) ResolveSession(_ context.Context, token string) (string, error) {
	f.gotToken = token
	return f.accountID, f.err
}

type fakeLimiter struct {
	dec   redis.Decision
	err   error
	calls int
	key   string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (redis.Decision, error) {
	f.calls++
	f.key = key
	d := f.dec
	d.Limit = limit
	return d, f.err
}

