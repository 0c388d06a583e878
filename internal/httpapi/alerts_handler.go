package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"fieldops-demo/internal/models"
	"fieldops-demo/internal/store"
)

// AlertsHandler 活跃报警查询
type AlertsHandler struct {
	st     store.Store
	keys   store.Keys
	logger *zap.Logger
}

// NewAlertsHandler 创建报警 Handler
func NewAlertsHandler(st store.Store, keys store.Keys, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{st: st, keys: keys, logger: logger}
}

// GetDashboardAlerts 最近 10 条活跃报警（最新在前）
func (h *AlertsHandler) GetDashboardAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := h.st.ZRevRangeWithScores(ctx, h.keys.AlertsActive(), 0, 9)
	if err != nil {
		h.logger.Error("GetDashboardAlerts failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	alerts := make([]models.Alert, 0, len(members))
	for _, member := range members {
		var alert models.Alert
		if err := json.Unmarshal([]byte(member.Member), &alert); err != nil {
			h.logger.Warn("skipping malformed alert member", zap.Error(err))
			continue
		}
		if alert.Timestamp == 0 {
			alert.Timestamp = member.Score
		}
		alerts = append(alerts, alert)
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"alerts": alerts,
		"count":  len(alerts),
	}))
}
