package models

import "time"

// AssetType 油田资产类型（固定设施 + 移动设备）
type AssetType string

const (
	AssetTypeProductionWell AssetType = "production_well"
	AssetTypeInjectionWell  AssetType = "injection_well"
	AssetTypePumpJack       AssetType = "pump_jack"
	AssetTypeDrillingRig    AssetType = "drilling_rig"
	AssetTypeCompressor     AssetType = "compressor"
	AssetTypeSeparator      AssetType = "separator"
	AssetTypeTankBattery    AssetType = "tank_battery"
	AssetTypeServiceTruck   AssetType = "service_truck"
)

// Mobile 该类型是否为移动资产（每个 tick 会更新位置）
func (t AssetType) Mobile() bool {
	return t == AssetTypeServiceTruck
}

// AssetStatus 资产运行状态
type AssetStatus string

const (
	StatusActive      AssetStatus = "active"
	StatusMaintenance AssetStatus = "maintenance"
	StatusOffline     AssetStatus = "offline"
)

// Asset 模拟资产（模拟器启动时创建，进程期间不删除）
type Asset struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         AssetType   `json:"type"`
	Manufacturer string      `json:"manufacturer"`
	Model        string      `json:"model"`
	Status       AssetStatus `json:"status"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	SensorID     string      `json:"sensor_id"`
	LastUpdate   time.Time   `json:"last_update"`
}
