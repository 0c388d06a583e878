// Package session 基于 Redis hash + TTL 的演示用会话管理。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldops-demo/internal/models"
	"fieldops-demo/internal/store"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

// Manager 会话管理器：每个会话一个带 TTL 的 hash，
// 另维护一个活跃会话 zset（score 为创建时间）用于枚举。
type Manager struct {
	st     store.Store
	keys   store.Keys
	ttl    time.Duration
	logger *zap.Logger
}

// Metrics 会话统计
type Metrics struct {
	TotalActiveSessions int            `json:"total_active_sessions"`
	UniqueUsers         int            `json:"unique_users"`
	AvgSessionDuration  float64        `json:"avg_session_duration"`
	SessionsByUser      map[string]int `json:"sessions_by_user"`
}

// NewManager 创建会话管理器
func NewManager(st store.Store, keys store.Keys, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{st: st, keys: keys, ttl: ttl, logger: logger}
}

// Create 创建新会话并加入活跃集合，返回会话 ID
func (m *Manager) Create(ctx context.Context, userID string, userData map[string]string) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	data := userData
	if data == nil {
		data = map[string]string{}
	}
	rawData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	key := m.keys.Session(sessionID)
	fields := map[string]interface{}{
		"session_id":    sessionID,
		"user_id":       userID,
		"created_at":    now.Format(time.RFC3339),
		"last_activity": now.Format(time.RFC3339),
		"user_data":     string(rawData),
	}
	if err := m.st.HSet(ctx, key, fields); err != nil {
		return "", err
	}
	if err := m.st.Expire(ctx, key, m.ttl); err != nil {
		return "", err
	}
	if err := m.st.ZAdd(ctx, m.keys.SessionsActive(), float64(now.Unix()), sessionID); err != nil {
		return "", err
	}

	m.logger.Info("session created",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID),
	)
	return sessionID, nil
}

// Get 读取会话。命中时刷新 last_activity 和 TTL（滑动过期）。
func (m *Manager) Get(ctx context.Context, sessionID string) (models.Session, error) {
	key := m.keys.Session(sessionID)

	fields, err := m.st.HGetAll(ctx, key)
	if err != nil {
		return models.Session{}, err
	}
	if len(fields) == 0 {
		return models.Session{}, ErrSessionNotFound
	}

	if err := m.st.HSet(ctx, key, map[string]interface{}{
		"last_activity": time.Now().Format(time.RFC3339),
	}); err != nil {
		m.logger.Warn("failed to touch session", zap.String("session_id", sessionID), zap.Error(err))
	}
	if err := m.st.Expire(ctx, key, m.ttl); err != nil {
		m.logger.Warn("failed to refresh session ttl", zap.String("session_id", sessionID), zap.Error(err))
	}

	return m.toSession(ctx, key, fields), nil
}

// Delete 删除会话并从活跃集合移除
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if err := m.st.Del(ctx, m.keys.Session(sessionID)); err != nil {
		return err
	}
	return m.st.ZRem(ctx, m.keys.SessionsActive(), sessionID)
}

// Active 枚举活跃会话。hash 已过期但仍留在集合里的成员顺手清理掉。
func (m *Manager) Active(ctx context.Context) ([]models.Session, error) {
	ids, err := m.st.ZRange(ctx, m.keys.SessionsActive(), 0, -1)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(ids))
	for _, id := range ids {
		key := m.keys.Session(id)
		fields, err := m.st.HGetAll(ctx, key)
		if err != nil {
			m.logger.Warn("failed to read session", zap.String("session_id", id), zap.Error(err))
			continue
		}
		if len(fields) == 0 {
			if err := m.st.ZRem(ctx, m.keys.SessionsActive(), id); err != nil {
				m.logger.Warn("failed to prune expired session", zap.String("session_id", id), zap.Error(err))
			}
			continue
		}
		sessions = append(sessions, m.toSession(ctx, key, fields))
	}
	return sessions, nil
}

// Metrics 汇总活跃会话统计
func (m *Manager) Metrics(ctx context.Context) (Metrics, error) {
	sessions, err := m.Active(ctx)
	if err != nil {
		return Metrics{}, err
	}

	byUser := make(map[string]int)
	var totalMinutes float64
	now := time.Now()
	for _, s := range sessions {
		byUser[s.UserID]++
		if created, err := time.Parse(time.RFC3339, s.CreatedAt); err == nil {
			totalMinutes += now.Sub(created).Minutes()
		}
	}

	avg := 0.0
	if len(sessions) > 0 {
		avg = math.Round(totalMinutes/float64(len(sessions))*100) / 100
	}

	return Metrics{
		TotalActiveSessions: len(sessions),
		UniqueUsers:         len(byUser),
		AvgSessionDuration:  avg,
		SessionsByUser:      byUser,
	}, nil
}

// SeedDemoUsers 为演示预置几个用户会话（启动时调用，失败只告警）
func (m *Manager) SeedDemoUsers(ctx context.Context) {
	demoUsers := []map[string]string{
		{"user_id": "operator_1", "name": "John Smith", "role": "Field Operator", "location": "Rig Alpha"},
		{"user_id": "supervisor_1", "name": "Sarah Johnson", "role": "Field Supervisor", "location": "Control Center"},
		{"user_id": "engineer_1", "name": "Mike Chen", "role": "Drilling Engineer", "location": "Rig Bravo"},
		{"user_id": "technician_1", "name": "Lisa Rodriguez", "role": "Maintenance Tech", "location": "Service Truck 001"},
	}
	for _, user := range demoUsers {
		if _, err := m.Create(ctx, user["user_id"], user); err != nil {
			m.logger.Warn("failed to seed demo session", zap.String("user_id", user["user_id"]), zap.Error(err))
		}
	}
}

// toSession hash 字段转会话模型，并补充 TTL 派生状态
func (m *Manager) toSession(ctx context.Context, key string, fields map[string]string) models.Session {
	s := models.Session{
		SessionID:    fields["session_id"],
		UserID:       fields["user_id"],
		CreatedAt:    fields["created_at"],
		LastActivity: fields["last_activity"],
		UserData:     fields["user_data"],
		Status:       "expired",
	}
	if ttl, err := m.st.TTL(ctx, key); err == nil && ttl > 0 {
		s.Status = "active"
		s.TTL = int64(ttl.Seconds())
	}
	return s
}
