package registry

import "fieldops-demo/internal/models"

// assetConfig 固定资产清单条目
type assetConfig struct {
	ID           string
	Name         string
	Type         models.AssetType
	Manufacturer string
	Model        string
	Lat          float64
	Lon          float64
}

// assetConfigs 演示油田的固定资产清单（Permian Basin，Midland 周边）。
// 顺序即 List 的确定性顺序。
var assetConfigs = []assetConfig{
	// 生产井
	{ID: "WELL-001", Name: "Production Well North-001", Type: models.AssetTypeProductionWell, Manufacturer: "Halliburton", Model: "WH-9000", Lat: 32.12, Lon: -102.05},
	{ID: "WELL-002", Name: "Production Well East-002", Type: models.AssetTypeProductionWell, Manufacturer: "Schlumberger", Model: "Cameron-T30", Lat: 31.95, Lon: -101.78},
	{ID: "WELL-003", Name: "Production Well South-003", Type: models.AssetTypeProductionWell, Manufacturer: "Baker Hughes", Model: "VetcoGray-SG5", Lat: 31.62, Lon: -102.21},

	// 注水井
	{ID: "INJ-001", Name: "Injection Well Alpha", Type: models.AssetTypeInjectionWell, Manufacturer: "Halliburton", Model: "IW-450", Lat: 31.88, Lon: -102.45},

	// 抽油机
	{ID: "PUMP-001", Name: "Pump Jack Unit 001", Type: models.AssetTypePumpJack, Manufacturer: "Lufkin", Model: "C-912", Lat: 32.05, Lon: -102.31},
	{ID: "PUMP-002", Name: "Pump Jack Unit 002", Type: models.AssetTypePumpJack, Manufacturer: "Weatherford", Model: "Rotaflex-1151", Lat: 31.74, Lon: -101.92},

	// 钻机
	{ID: "RIG-ALPHA", Name: "Drilling Rig Alpha", Type: models.AssetTypeDrillingRig, Manufacturer: "NOV", Model: "Ideal-1500", Lat: 32.31, Lon: -102.10},

	// 压缩机 / 分离器 / 储罐区
	{ID: "COMP-001", Name: "Gas Compressor Station 001", Type: models.AssetTypeCompressor, Manufacturer: "Ariel", Model: "JGK-4", Lat: 31.99, Lon: -102.18},
	{ID: "SEP-001", Name: "Separator Unit 001", Type: models.AssetTypeSeparator, Manufacturer: "Exterran", Model: "HP-3Phase", Lat: 32.02, Lon: -102.09},
	{ID: "TANK-001", Name: "Tank Battery Central", Type: models.AssetTypeTankBattery, Manufacturer: "Meridian", Model: "TB-5000", Lat: 31.97, Lon: -102.14},

	// 作业车（移动资产）
	{ID: "TRUCK-001", Name: "Field Service Truck 001", Type: models.AssetTypeServiceTruck, Manufacturer: "Ford", Model: "F-350-Service", Lat: 31.99, Lon: -102.08},
	{ID: "TRUCK-002", Name: "Field Service Truck 002", Type: models.AssetTypeServiceTruck, Manufacturer: "Ram", Model: "5500-Crew", Lat: 32.08, Lon: -102.00},
}
