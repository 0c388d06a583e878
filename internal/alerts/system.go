package alerts

import (
	"fmt"
	"math/rand"
	"time"

	"fieldops-demo/internal/models"
)

// systemAlertTemplates 周期性系统级报警模板
var systemAlertTemplates = []struct {
	Category string
	Message  string
	Details  string
	Severity models.Severity
}{
	{
		Category: "maintenance_due",
		Message:  "Scheduled Maintenance Due",
		Details:  "Preventive maintenance window approaching",
		Severity: models.SeverityWarning,
	},
	{
		Category: "communication_issue",
		Message:  "Communication Timeout",
		Details:  "Intermittent connection to remote sensors",
		Severity: models.SeverityWarning,
	},
	{
		Category: "production_anomaly",
		Message:  "Production Rate Anomaly",
		Details:  "Output variance detected across multiple wells",
		Severity: models.SeverityHigh,
	},
	{
		Category: "weather_warning",
		Message:  "Weather Advisory",
		Details:  "High winds forecasted - secure equipment",
		Severity: models.SeverityWarning,
	},
}

var systemAlertLocations = []string{
	"FIELD-NORTH", "FIELD-SOUTH", "FIELD-CENTRAL", "OPERATIONS-HQ",
}

// RandomSystemAlert 随机生成一条系统级报警（sensor_id 固定为 SYSTEM）
func RandomSystemAlert(rng *rand.Rand, now time.Time) models.Alert {
	tmpl := systemAlertTemplates[rng.Intn(len(systemAlertTemplates))]
	location := systemAlertLocations[rng.Intn(len(systemAlertLocations))]

	return models.Alert{
		ID:        fmt.Sprintf("SYS_%s_%d", tmpl.Category, now.Unix()),
		Category:  tmpl.Category,
		Message:   tmpl.Message,
		Details:   tmpl.Details,
		Location:  location,
		SensorID:  "SYSTEM",
		Severity:  tmpl.Severity,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
	}
}
