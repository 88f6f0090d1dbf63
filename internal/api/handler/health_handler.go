package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
)

// Pinger 健康檢查的依賴，例如 DB、redis
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	if checks == nil {
		checks = map[string]Pinger{}
	}
	return &HealthHandler{checks: checks}
}

// Health 任何一個依賴失敗回傳 503
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			result[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "up"
	}
	response.SuccessJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": result})
}
