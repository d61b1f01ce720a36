package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eventsapi/internal/delivery/http/helpers"
)

// PingFunc checks that the event store is reachable.
type PingFunc func(ctx context.Context) error

type HealthController struct {
	Logger *slog.Logger
	Ping   PingFunc
}

func NewHealthController(logger *slog.Logger, ping PingFunc) *HealthController {
	return &HealthController{Logger: logger, Ping: ping}
}

// HealthResponse is the data payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Check godoc
// @Summary Health check
// @Description Reports whether the event store answers a ping.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /healthz [get]
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		c.Logger.WarnContext(r.Context(), "health check failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "store unavailable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}
