package alerts

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"fieldops-demo/internal/models"
	"fieldops-demo/internal/store"
)

// Sink 把报警发布到存储的有界有序集合（score 为时间戳），
// 超出容量的最旧成员按 rank 裁剪。
type Sink struct {
	st       store.Store
	keys     store.Keys
	capacity int
	logger   *zap.Logger
}

// NewSink 创建报警发布器
func NewSink(st store.Store, keys store.Keys, capacity int, logger *zap.Logger) *Sink {
	return &Sink{st: st, keys: keys, capacity: capacity, logger: logger}
}

// Publish 发布一条报警。replaced 非空时先移除旧成员（同 ID 幂等更新）。
func (s *Sink) Publish(ctx context.Context, a models.Alert, replaced *models.Alert) error {
	key := s.keys.AlertsActive()

	if replaced != nil {
		raw, err := json.Marshal(replaced)
		if err == nil {
			if err := s.st.ZRem(ctx, key, string(raw)); err != nil {
				s.logger.Warn("failed to remove superseded alert", zap.String("alert_id", replaced.ID), zap.Error(err))
			}
		}
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if err := s.st.ZAdd(ctx, key, a.Timestamp, string(raw)); err != nil {
		return err
	}
	if _, err := s.st.Incr(ctx, s.keys.AlertsCount()); err != nil {
		s.logger.Warn("failed to bump alert counter", zap.Error(err))
	}

	// 只保留最近 capacity 条
	return s.st.ZRemRangeByRank(ctx, key, 0, int64(-s.capacity-1))
}
