package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"fieldops-demo/internal/session"
)

// SessionsHandler 会话管理
type SessionsHandler struct {
	mgr    *session.Manager
	logger *zap.Logger
}

// NewSessionsHandler 创建会话 Handler
func NewSessionsHandler(mgr *session.Manager, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{mgr: mgr, logger: logger}
}

type createSessionRequest struct {
	UserID   string            `json:"user_id"`
	UserData map[string]string `json:"user_data"`
}

// Create 创建会话
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user_id is required"))
		return
	}

	sessionID, err := h.mgr.Create(r.Context(), req.UserID, req.UserData)
	if err != nil {
		h.logger.Error("Create session failed", zap.String("user_id", req.UserID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"session_id": sessionID,
		"user_id":    req.UserID,
	}))
}

// Get 读取单个会话（滑动刷新 TTL）
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, err := h.mgr.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("Session not found"))
			return
		}
		h.logger.Error("Get session failed", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{"session": s}))
}

// Delete 删除会话
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.mgr.Delete(r.Context(), sessionID); err != nil {
		h.logger.Error("Delete session failed", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(Envelope{"message": "Session deleted"}))
}

// List 全部活跃会话
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.mgr.Active(r.Context())
	if err != nil {
		h.logger.Error("List sessions failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"sessions": sessions,
		"count":    len(sessions),
	}))
}

// Metrics 会话统计
func (h *SessionsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.mgr.Metrics(r.Context())
	if err != nil {
		h.logger.Error("Session metrics failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{"metrics": metrics}))
}
