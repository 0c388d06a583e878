package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"fieldops-demo/internal/models"
)

var maintenanceTeams = []string{
	"Field Ops A", "Field Ops B", "Field Ops C",
	"Well Service Alpha", "Rig Maintenance Team",
}

// buildDocument 生成资产的 RedisJSON 文档
func (r *Registry) buildDocument(asset models.Asset) (string, error) {
	now := time.Now()
	installDate := now.AddDate(0, 0, -r.rng.Intn(730)-365)
	lastService := now.AddDate(0, 0, -r.rng.Intn(89)-1)
	nextService := lastService.AddDate(0, 0, r.rng.Intn(90)+30)

	metrics := make(map[string]float64)
	for channel, rng := range RangesFor(asset.Type) {
		value := rng.Min + r.rng.Float64()*(rng.Max-rng.Min)
		metrics[string(channel)] = math.Round(value*100) / 100
	}

	doc := map[string]interface{}{
		"asset": map[string]interface{}{
			"id":    asset.ID,
			"name":  asset.Name,
			"type":  string(asset.Type),
			"group": "Permian Basin Field A",
			"model": map[string]interface{}{
				"manufacturer":  asset.Manufacturer,
				"model_number":  asset.Model,
				"serial_number": fmt.Sprintf("SN-%08d", r.rng.Intn(90000000)+10000000),
				"install_date":  installDate.Format("2006-01-02"),
			},
			"status": map[string]interface{}{
				"state":         string(asset.Status),
				"last_update":   now.Format(time.RFC3339),
				"health_score":  r.rng.Intn(15) + 85,
				"runtime_hours": r.rng.Intn(7000) + 1000,
			},
			"location": map[string]interface{}{
				"latitude":  asset.Latitude,
				"longitude": asset.Longitude,
				"zone":      fmt.Sprintf("Permian Zone %d", r.rng.Intn(6)+1),
				"region":    fmt.Sprintf("TX-PB%d", r.rng.Intn(6)+1),
			},
			"metrics": metrics,
			"maintenance": map[string]interface{}{
				"last_service_date": lastService.Format("2006-01-02"),
				"next_service_due":  nextService.Format("2006-01-02"),
				"team":              maintenanceTeams[r.rng.Intn(len(maintenanceTeams))],
			},
			"connectivity": map[string]interface{}{
				"sensor_id":      asset.SensorID,
				"data_frequency": "5s",
				"data_source":    "Modbus/TCP",
			},
		},
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
