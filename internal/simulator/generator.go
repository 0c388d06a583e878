package simulator

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/models"
	"fieldops-demo/internal/registry"
	"fieldops-demo/internal/store"
)

// Generator 每个 tick 为每个传感器产出一条读数。
// 取值沿上一次读数做有界随机游走，看起来连续而不是独立重采样的噪声。
type Generator struct {
	st           store.Store
	keys         store.Keys
	streamMaxLen int64
	rng          *rand.Rand
	logger       *zap.Logger

	// 每个传感器的上一次取值（单写者：仅 tick 循环访问）
	prev map[string]map[models.MetricChannel]float64
}

// NewGenerator 创建遥测生成器
func NewGenerator(st store.Store, keys store.Keys, streamMaxLen int64, rng *rand.Rand, logger *zap.Logger) *Generator {
	return &Generator{
		st:           st,
		keys:         keys,
		streamMaxLen: streamMaxLen,
		rng:          rng,
		logger:       logger,
		prev:         make(map[string]map[models.MetricChannel]float64),
	}
}

// Next 生成资产的下一条读数（不落存储）。
// 有历史值时随机游走，否则在标称范围内均匀采样。
func (g *Generator) Next(asset models.Asset, now time.Time) models.SensorReading {
	ranges := registry.RangesFor(asset.Type)
	last := g.prev[asset.SensorID]

	values := make(map[models.MetricChannel]float64, len(ranges))
	for channel, r := range ranges {
		var v float64
		if prev, ok := last[channel]; ok {
			v = NextValue(prev, r, g.rng)
		} else {
			v = InitialValue(r, g.rng)
		}
		values[channel] = math.Round(v*100) / 100
	}

	return models.SensorReading{
		SensorID:  asset.SensorID,
		AssetID:   asset.ID,
		Timestamp: now,
		Values:    values,
	}
}

// Emit 把读数写入按传感器追加的流和最新值快照。
// 任一写入失败即放弃该传感器本次 tick（记录日志，不在 tick 内重试），
// prev 不更新，下一个 tick 从最后一次成功值继续。
func (g *Generator) Emit(ctx context.Context, reading models.SensorReading) error {
	fields := readingFields(reading)

	// 先写日志流，再写快照：快照永远不会引用日志里不存在的读数
	if _, err := g.st.XAdd(ctx, g.keys.SensorStream(reading.SensorID), g.streamMaxLen, fields); err != nil {
		g.logger.Warn("abandoning sensor tick, stream append failed",
			zap.String("sensor_id", reading.SensorID),
			zap.Error(err),
		)
		return err
	}
	if err := g.st.HSet(ctx, g.keys.SensorLatest(reading.SensorID), fields); err != nil {
		g.logger.Warn("abandoning sensor tick, snapshot write failed",
			zap.String("sensor_id", reading.SensorID),
			zap.Error(err),
		)
		return err
	}

	// 两个写入都成功后才推进随机游走状态
	g.prev[reading.SensorID] = reading.Values
	return nil
}

// readingFields 读数的存储字段表示（流与快照共用）
func readingFields(reading models.SensorReading) map[string]interface{} {
	fields := map[string]interface{}{
		"sensor_id": reading.SensorID,
		"location":  reading.AssetID,
		"timestamp": strconv.FormatFloat(float64(reading.Timestamp.UnixNano())/float64(time.Second), 'f', 3, 64),
	}
	for channel, value := range reading.Values {
		fields[string(channel)] = strconv.FormatFloat(value, 'f', 2, 64)
	}
	return fields
}
