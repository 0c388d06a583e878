package store

import "strings"

// Keys 统一的 key 命名（前缀可配置，默认 "fieldops"）
type Keys struct {
	Prefix string
}

func NewKeys(prefix string) Keys {
	return Keys{Prefix: prefix}
}

// Asset JSON 文档：{prefix}:asset:{id}
func (k Keys) Asset(id string) string {
	return k.Prefix + ":asset:" + id
}

// Locations 地理索引：{prefix}:assets:locations
func (k Keys) Locations() string {
	return k.Prefix + ":assets:locations"
}

// SensorStream 每传感器流：{prefix}:sensors:{sensorID}
func (k Keys) SensorStream(sensorID string) string {
	return k.Prefix + ":sensors:" + sensorID
}

// SensorLatest 快照 hash：{prefix}:sensor:latest:{sensorID}
func (k Keys) SensorLatest(sensorID string) string {
	return k.Prefix + ":sensor:latest:" + sensorID
}

// SensorLatestPattern 快照扫描 pattern
func (k Keys) SensorLatestPattern() string {
	return k.Prefix + ":sensor:latest:*"
}

// SensorIDFromLatestKey 从快照 key 还原传感器 ID
func (k Keys) SensorIDFromLatestKey(key string) string {
	parts := strings.Split(key, ":")
	return parts[len(parts)-1]
}

// AlertsActive 有界报警集合（zset，score 为时间戳）
func (k Keys) AlertsActive() string {
	return k.Prefix + ":alerts:active"
}

// AlertsCount 报警累计计数
func (k Keys) AlertsCount() string {
	return k.Prefix + ":alerts:count"
}

// Metric 仪表盘指标：{prefix}:metrics:{name}
func (k Keys) Metric(name string) string {
	return k.Prefix + ":metrics:" + name
}

// Uptime 系统启动时间戳
func (k Keys) Uptime() string {
	return k.Prefix + ":system:uptime"
}

// Session 会话 hash：{prefix}:session:{id}
func (k Keys) Session(id string) string {
	return k.Prefix + ":session:" + id
}

// SessionsActive 活跃会话集合
func (k Keys) SessionsActive() string {
	return k.Prefix + ":sessions:active"
}

// SearchIndex 资产搜索索引名
func (k Keys) SearchIndex() string {
	return "idx:" + k.Prefix + ":assets"
}

// AssetKeyPrefix 搜索索引覆盖的 key 前缀
func (k Keys) AssetKeyPrefix() string {
	return k.Prefix + ":asset:"
}
