package alerts

import "fieldops-demo/internal/models"

type direction int

const (
	above direction = iota
	below
)

// Rule 单个通道的阈值规则。
// 边界有序且不重叠：above 时 critical > high > warning，below 时反向。
type Rule struct {
	Channel  models.MetricChannel
	Category string
	IDPrefix string
	Message  string
	Unit     string

	dir         direction
	Warning     float64
	High        float64
	Critical    float64
	HasCritical bool
}

// Severity 返回取值触发的级别；未越限时 ok=false
func (r Rule) Severity(value float64) (models.Severity, bool) {
	if r.dir == above {
		switch {
		case r.HasCritical && value > r.Critical:
			return models.SeverityCritical, true
		case value > r.High:
			return models.SeverityHigh, true
		case value > r.Warning:
			return models.SeverityWarning, true
		}
		return "", false
	}
	switch {
	case r.HasCritical && value < r.Critical:
		return models.SeverityCritical, true
	case value < r.High:
		return models.SeverityHigh, true
	case value < r.Warning:
		return models.SeverityWarning, true
	}
	return "", false
}

// defaultRules 未配置类型的兜底规则
var defaultRules = []Rule{
	{
		Channel: models.ChannelTemperature, Category: "temperature_high", IDPrefix: "TEMP_HIGH",
		Message: "High Temperature Detected", Unit: "°F",
		dir: above, Warning: 120, High: 135, Critical: 145, HasCritical: true,
	},
}

// typeRules 按资产类型的阈值表
var typeRules = map[models.AssetType][]Rule{
	models.AssetTypeProductionWell: {
		{
			Channel: models.ChannelTemperature, Category: "temperature_high", IDPrefix: "TEMP_HIGH",
			Message: "High Temperature Detected", Unit: "°F",
			dir: above, Warning: 180, High: 195, Critical: 200, HasCritical: true,
		},
		{
			Channel: models.ChannelPressure, Category: "pressure_high", IDPrefix: "PRESS_HIGH",
			Message: "Pressure Threshold Exceeded", Unit: "PSI",
			dir: above, Warning: 2800, High: 3000, Critical: 3200, HasCritical: true,
		},
		{
			Channel: models.ChannelFlowRate, Category: "flow_low", IDPrefix: "FLOW_LOW",
			Message: "Low Flow Rate Alert", Unit: "bbl/d",
			dir: below, Warning: 45, High: 38,
		},
	},
	models.AssetTypeInjectionWell: {
		{
			Channel: models.ChannelTemperature, Category: "temperature_high", IDPrefix: "TEMP_HIGH",
			Message: "High Temperature Detected", Unit: "°F",
			dir: above, Warning: 150, High: 165, Critical: 172, HasCritical: true,
		},
		{
			Channel: models.ChannelPressure, Category: "pressure_high", IDPrefix: "PRESS_HIGH",
			Message: "Pressure Threshold Exceeded", Unit: "PSI",
			dir: above, Warning: 3000, High: 3250, Critical: 3450, HasCritical: true,
		},
	},
	models.AssetTypePumpJack: {
		{
			Channel: models.ChannelTemperature, Category: "temperature_high", IDPrefix: "TEMP_HIGH",
			Message: "High Temperature Detected", Unit: "°F",
			dir: above, Warning: 110, High: 120, Critical: 126, HasCritical: true,
		},
		{
			Channel: models.ChannelVibration, Category: "vibration_high", IDPrefix: "VIB_HIGH",
			Message: "Excessive Vibration Detected", Unit: "mm/s",
			dir: above, Warning: 2.5, High: 3.0, Critical: 4.0, HasCritical: true,
		},
		{
			Channel: models.ChannelFlowRate, Category: "flow_low", IDPrefix: "FLOW_LOW",
			Message: "Low Flow Rate Alert", Unit: "bbl/d",
			dir: below, Warning: 70, High: 58,
		},
	},
	models.AssetTypeDrillingRig: {
		{
			Channel: models.ChannelVibration, Category: "vibration_high", IDPrefix: "VIB_HIGH",
			Message: "Excessive Vibration Detected", Unit: "mm/s",
			dir: above, Warning: 4.0, High: 5.0, Critical: 5.6, HasCritical: true,
		},
	},
	models.AssetTypeCompressor: {
		{
			Channel: models.ChannelTemperature, Category: "temperature_high", IDPrefix: "TEMP_HIGH",
			Message: "High Temperature Detected", Unit: "°F",
			dir: above, Warning: 135, High: 148, Critical: 155, HasCritical: true,
		},
		{
			Channel: models.ChannelVibration, Category: "vibration_high", IDPrefix: "VIB_HIGH",
			Message: "Excessive Vibration Detected", Unit: "mm/s",
			dir: above, Warning: 3.5, High: 4.2, Critical: 4.7, HasCritical: true,
		},
	},
	models.AssetTypeSeparator: {
		{
			Channel: models.ChannelPressure, Category: "pressure_high", IDPrefix: "PRESS_HIGH",
			Message: "Pressure Threshold Exceeded", Unit: "PSI",
			dir: above, Warning: 380, High: 415, Critical: 435, HasCritical: true,
		},
	},
	models.AssetTypeTankBattery: {
		{
			Channel: models.ChannelFlowRate, Category: "flow_low", IDPrefix: "FLOW_LOW",
			Message: "Low Flow Rate Alert", Unit: "bbl/d",
			dir: below, Warning: 32, High: 26,
		},
	},
	models.AssetTypeServiceTruck: {
		{
			Channel: models.ChannelVibration, Category: "vibration_high", IDPrefix: "VIB_HIGH",
			Message: "Excessive Vibration Detected", Unit: "mm/s",
			dir: above, Warning: 2.8, High: 3.3, Critical: 3.8, HasCritical: true,
		},
	},
}

// RulesFor 返回资产类型的阈值规则；未配置的类型回退到兜底规则
func RulesFor(t models.AssetType) []Rule {
	if rules, ok := typeRules[t]; ok {
		return rules
	}
	return defaultRules
}
