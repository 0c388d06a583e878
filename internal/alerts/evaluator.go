package alerts

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/models"
)

// Evaluator 把越限读数转成报警事件。
// 报警 ID 由 (类别, 传感器, 时间桶) 确定性生成：同一时间桶内
// 重复触发得到同一 ID，上游按 ID 幂等更新而不是追加，
// 避免传感器卡在极端值时刷屏。
type Evaluator struct {
	dedupBucket time.Duration
	logger      *zap.Logger
}

// NewEvaluator 创建评估器。bucket 为去重时间桶，建议等于 tick 周期。
func NewEvaluator(dedupBucket time.Duration, logger *zap.Logger) *Evaluator {
	if dedupBucket <= 0 {
		dedupBucket = time.Second
	}
	return &Evaluator{dedupBucket: dedupBucket, logger: logger}
}

// Evaluate 评估单条读数。每个越限通道各产生一条报警；
// 全部在正常范围内时返回空。
func (e *Evaluator) Evaluate(reading models.SensorReading, asset models.Asset) []models.Alert {
	var out []models.Alert

	bucket := reading.Timestamp.Truncate(e.dedupBucket).Unix()
	ts := float64(reading.Timestamp.UnixNano()) / float64(time.Second)

	for _, rule := range RulesFor(asset.Type) {
		value, ok := reading.Values[rule.Channel]
		if !ok {
			continue
		}
		severity, triggered := rule.Severity(value)
		if !triggered {
			continue
		}

		alert := models.Alert{
			ID:        fmt.Sprintf("%s_%s_%d", rule.IDPrefix, reading.SensorID, bucket),
			Category:  rule.Category,
			Message:   rule.Message,
			Details:   fmt.Sprintf("%.1f %s outside normal operating range", value, rule.Unit),
			Location:  asset.ID,
			SensorID:  reading.SensorID,
			Severity:  severity,
			Timestamp: ts,
		}
		out = append(out, alert)

		e.logger.Info("alert generated",
			zap.String("alert_id", alert.ID),
			zap.String("category", alert.Category),
			zap.String("severity", string(alert.Severity)),
			zap.String("location", alert.Location),
			zap.Float64("value", value),
		)
	}

	return out
}
