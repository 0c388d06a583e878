package simulator

import (
	"math/rand"

	"fieldops-demo/internal/registry"
)

// NextValue 基于上一次取值做有界随机游走：
// next = clamp(prev + uniform(-maxDelta, +maxDelta), min, max)。
// 纯函数，随机源由调用方注入，便于测试。
func NextValue(prev float64, r registry.ChannelRange, rng *rand.Rand) float64 {
	delta := (rng.Float64()*2 - 1) * r.MaxDelta
	next := prev + delta
	if next < r.Min {
		next = r.Min
	}
	if next > r.Max {
		next = r.Max
	}
	return next
}

// InitialValue 无历史值时在标称范围内均匀采样
func InitialValue(r registry.ChannelRange, rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
