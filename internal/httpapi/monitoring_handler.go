package httpapi

import (
	"net/http"

	"fieldops-demo/internal/monitor"
)

// MonitoringHandler 命令监视面板。
// 监视器是进程内状态，这里暴露的是本 API 进程自己发出的命令。
type MonitoringHandler struct {
	mon *monitor.Monitor
}

// NewMonitoringHandler 创建监视 Handler
func NewMonitoringHandler(mon *monitor.Monitor) *MonitoringHandler {
	return &MonitoringHandler{mon: mon}
}

// Commands 某个 context 最近的命令记录（最新在前）
func (h *MonitoringHandler) Commands(w http.ResponseWriter, r *http.Request) {
	context := r.URL.Query().Get("context")
	if context == "" {
		context = "dashboard"
	}
	count := parseInt(r.URL.Query().Get("count"), 50)

	commands := h.mon.Recent(context, count)
	writeJSON(w, http.StatusOK, Ok(Envelope{
		"context":  context,
		"commands": commands,
		"count":    len(commands),
	}))
}

// Stats 全部 context 的读写计数
func (h *MonitoringHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]monitor.Stats)
	for _, context := range h.mon.Contexts() {
		stats[context] = h.mon.Stats(context)
	}
	writeJSON(w, http.StatusOK, Ok(Envelope{"stats": stats}))
}

// Clear 清空命令记录。带 context 参数只清该分区，否则全清。
func (h *MonitoringHandler) Clear(w http.ResponseWriter, r *http.Request) {
	context := r.URL.Query().Get("context")
	if context == "" {
		h.mon.ClearAll()
		writeJSON(w, http.StatusOK, Ok(Envelope{"message": "All command logs cleared"}))
		return
	}
	h.mon.Clear(context)
	writeJSON(w, http.StatusOK, Ok(Envelope{"message": "Command log cleared", "context": context}))
}
