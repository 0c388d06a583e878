package models

// Severity 报警级别（有序：warning < high < critical）
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank 级别排序值，仅用于展示排序，存储顺序始终按时间戳
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityWarning:
		return 1
	}
	return 0
}

// Valid 是否为合法级别
func (s Severity) Valid() bool {
	return s == SeverityWarning || s == SeverityHigh || s == SeverityCritical
}

// Alert 由读数越限派生的报警事件。
// ID 由 (类别, 传感器, 时间桶) 确定性生成，作为去重键。
type Alert struct {
	ID        string   `json:"id"`
	Category  string   `json:"type"`
	Message   string   `json:"message"`
	Details   string   `json:"details"`
	Location  string   `json:"location"`
	SensorID  string   `json:"sensor_id"`
	Severity  Severity `json:"severity"`
	Timestamp float64  `json:"timestamp"`
}
