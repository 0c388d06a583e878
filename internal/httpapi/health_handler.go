package httpapi

import (
	"net/http"
	"time"

	"fieldops-demo/internal/store"
)

// HealthHandler 健康检查
type HealthHandler struct {
	st store.Store
}

// NewHealthHandler 创建健康检查 Handler
func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{st: st}
}

// Health 检查存储连通性
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.st.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, Envelope{
			"status":          "unhealthy",
			"redis_connected": false,
			"error":           err.Error(),
			"timestamp":       time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		"status":          "healthy",
		"redis_connected": true,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}
