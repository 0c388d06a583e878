package registry

import "fieldops-demo/internal/models"

// ChannelRange 通道的标称范围与随机游走步长上限
type ChannelRange struct {
	Min      float64
	Max      float64
	MaxDelta float64
}

// defaultRanges 未知资产类型的兜底范围（不让 tick 失败）
var defaultRanges = map[models.MetricChannel]ChannelRange{
	models.ChannelTemperature: {Min: 50, Max: 150, MaxDelta: 5},
}

// typeRanges 按资产类型的通道范围表。
// 温度 °F、压力 PSI、流量 bbl/d、振动 mm/s。
var typeRanges = map[models.AssetType]map[models.MetricChannel]ChannelRange{
	models.AssetTypeProductionWell: {
		models.ChannelTemperature: {Min: 100, Max: 220, MaxDelta: 5},
		models.ChannelPressure:    {Min: 1500, Max: 3500, MaxDelta: 60},
		models.ChannelFlowRate:    {Min: 30, Max: 150, MaxDelta: 8},
	},
	models.AssetTypeInjectionWell: {
		models.ChannelTemperature: {Min: 90, Max: 180, MaxDelta: 5},
		models.ChannelPressure:    {Min: 1800, Max: 3600, MaxDelta: 60},
		models.ChannelFlowRate:    {Min: 40, Max: 160, MaxDelta: 8},
	},
	models.AssetTypePumpJack: {
		models.ChannelTemperature: {Min: 70, Max: 130, MaxDelta: 4},
		models.ChannelPressure:    {Min: 2200, Max: 3000, MaxDelta: 40},
		models.ChannelFlowRate:    {Min: 50, Max: 200, MaxDelta: 10},
		models.ChannelVibration:   {Min: 0.5, Max: 5.0, MaxDelta: 0.3},
	},
	models.AssetTypeDrillingRig: {
		models.ChannelTemperature: {Min: 60, Max: 120, MaxDelta: 4},
		models.ChannelVibration:   {Min: 0.5, Max: 6.0, MaxDelta: 0.4},
	},
	models.AssetTypeCompressor: {
		models.ChannelTemperature: {Min: 80, Max: 160, MaxDelta: 5},
		models.ChannelPressure:    {Min: 500, Max: 1200, MaxDelta: 30},
		models.ChannelVibration:   {Min: 1.0, Max: 5.0, MaxDelta: 0.3},
	},
	models.AssetTypeSeparator: {
		models.ChannelTemperature: {Min: 70, Max: 130, MaxDelta: 4},
		models.ChannelPressure:    {Min: 150, Max: 450, MaxDelta: 15},
		models.ChannelFlowRate:    {Min: 50, Max: 220, MaxDelta: 10},
	},
	models.AssetTypeTankBattery: {
		models.ChannelTemperature: {Min: 50, Max: 100, MaxDelta: 3},
		models.ChannelFlowRate:    {Min: 20, Max: 100, MaxDelta: 6},
	},
	models.AssetTypeServiceTruck: {
		models.ChannelTemperature: {Min: 40, Max: 110, MaxDelta: 4},
		models.ChannelVibration:   {Min: 0.5, Max: 4.0, MaxDelta: 0.3},
	},
}

// RangesFor 返回资产类型的通道范围；未配置的类型回退到通用默认值
func RangesFor(t models.AssetType) map[models.MetricChannel]ChannelRange {
	if ranges, ok := typeRanges[t]; ok {
		return ranges
	}
	return defaultRanges
}
