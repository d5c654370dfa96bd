package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/baechuer/account-portal/internal/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler takes the database and an optional Redis pinger.
func NewHealthHandler(db Pinger, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.unavailable(w, r, "database unavailable", err)
			return
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			h.unavailable(w, r, "redis unavailable", err)
			return
		}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ready"})
}

func (h *HealthHandler) unavailable(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.WithCtx(r.Context()).Warn().Err(err).Msg("readiness check failed")
	render.Status(r, http.StatusServiceUnavailable)
	render.JSON(w, r, map[string]string{
		"status": "unavailable",
		"error":  msg,
	})
}
