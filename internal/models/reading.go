package models

import "time"

// MetricChannel 传感器指标通道
type MetricChannel string

const (
	ChannelTemperature MetricChannel = "temperature"
	ChannelPressure    MetricChannel = "pressure"
	ChannelFlowRate    MetricChannel = "flow_rate"
	ChannelVibration   MetricChannel = "vibration"
)

// SensorReading 一次采样读数，生成后不可变。
// Values 只包含该资产类型适用的通道。
type SensorReading struct {
	SensorID  string                    `json:"sensor_id"`
	AssetID   string                    `json:"location"`
	Timestamp time.Time                 `json:"timestamp"`
	Values    map[MetricChannel]float64 `json:"values"`
}
