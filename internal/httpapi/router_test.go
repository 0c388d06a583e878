package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fieldops-demo/internal/models"
	"fieldops-demo/internal/monitor"
	"fieldops-demo/internal/registry"
	"fieldops-demo/internal/session"
	"fieldops-demo/internal/store"
	"fieldops-demo/internal/store/storetest"
)

type apiFixture struct {
	router *Router
	fake   *storetest.Fake
	keys   store.Keys
	mon    *monitor.Monitor
	reg    *registry.Registry
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := zap.NewNop()
	fake := storetest.NewFake()
	keys := store.NewKeys("fieldops")
	mon := monitor.New(100)
	reg := registry.New(rand.New(rand.NewSource(1)), logger)

	router := NewRouter(logger)
	sensors := NewSensorsHandler(fake, keys, 1000, logger)
	router.RegisterDashboardRoutes(NewDashboardHandler(fake, keys, logger), sensors)
	router.RegisterSensorRoutes(sensors)
	router.RegisterAlertRoutes(NewAlertsHandler(fake, keys, logger))
	router.RegisterSearchRoutes(NewSearchHandler(fake, keys, logger))
	router.RegisterSessionRoutes(NewSessionsHandler(session.NewManager(fake, keys, time.Hour, logger), logger))
	router.RegisterMonitoringRoutes(NewMonitoringHandler(mon))
	router.RegisterHealthRoutes(NewHealthHandler(fake))

	return &apiFixture{router: router, fake: fake, keys: keys, mon: mon, reg: reg}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func (f *apiFixture) seedAssets(t *testing.T) {
	t.Helper()
	require.NoError(t, f.reg.Register(context.Background(), f.fake, f.keys))
}

func TestGetAssets(t *testing.T) {
	f := newFixture(t)
	f.seedAssets(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/assets", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, float64(len(f.reg.List())), envelope["count"])
}

func TestGetAsset_NotFound(t *testing.T) {
	f := newFixture(t)
	f.seedAssets(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/assets/NO-SUCH", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Asset not found", envelope["error"])
}

func TestGetAsset_Found(t *testing.T) {
	f := newFixture(t)
	f.seedAssets(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/assets/WELL-001", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])

	asset := envelope["asset"].(map[string]interface{})
	assert.Equal(t, "WELL-001", asset["id"])
	assert.Equal(t, "production_well", asset["type"])
}

func TestGetNearbyAssets_RequiresCoordinates(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/assets/nearby", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestGetNearbyAssets(t *testing.T) {
	f := newFixture(t)
	f.seedAssets(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/assets/nearby?lat=31.9&lon=-102.1&radius=500", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Greater(t, envelope["count"], float64(0))
}

func TestUpdateAsset(t *testing.T) {
	f := newFixture(t)
	f.seedAssets(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/assets/TRUCK-001/update",
		`{"latitude": 32.1, "longitude": -102.3, "status": "maintenance"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])

	lon, lat, err := f.fake.GeoPos(context.Background(), f.keys.Locations(), "TRUCK-001")
	require.NoError(t, err)
	assert.InDelta(t, 32.1, lat, 1e-9)
	assert.InDelta(t, -102.3, lon, 1e-9)

	raw, err := f.fake.JSONGet(context.Background(), f.keys.Asset("TRUCK-001"))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	status := doc["asset"].(map[string]interface{})["status"].(map[string]interface{})
	assert.Equal(t, "maintenance", status["state"])
}

func TestUpdateAsset_UnknownAsset(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/assets/NO-SUCH/update",
		`{"latitude": 32.0, "longitude": -102.0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestSensorIngestAndStream(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/sensors/data",
		`{"sensor_id": "SEN-WELL-001", "location": "WELL-001", "temperature": 185.5, "pressure": 2750}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.NotEmpty(t, envelope["stream_id"])

	rec, envelope = f.do(t, http.MethodGet, "/api/sensors/SEN-WELL-001/stream?count=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), envelope["count"])

	data := envelope["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "185.50", first["temperature"])
}

func TestSensorIngest_RequiresSensorID(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/sensors/data", `{"location": "WELL-001"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestActiveSensors(t *testing.T) {
	f := newFixture(t)

	for i := 1; i <= 3; i++ {
		f.do(t, http.MethodPost, "/api/sensors/data",
			fmt.Sprintf(`{"sensor_id": "SEN-%d", "location": "WELL-00%d", "temperature": 120}`, i, i))
	}

	rec, envelope := f.do(t, http.MethodGet, "/api/sensors/active", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), envelope["count"])
}

func TestAssetSensors_FiltersByLocation(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/api/sensors/data", `{"sensor_id": "SEN-A", "location": "WELL-001", "temperature": 120}`)
	f.do(t, http.MethodPost, "/api/sensors/data", `{"sensor_id": "SEN-B", "location": "WELL-002", "temperature": 120}`)

	rec, envelope := f.do(t, http.MethodGet, "/api/assets/WELL-001/sensors", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), envelope["count"])
}

func TestDashboardAlerts_TopTenNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		alert := models.Alert{
			ID:        fmt.Sprintf("TEMP_HIGH_SEN-%d_%d", i, i),
			Category:  "temperature_high",
			Severity:  models.SeverityWarning,
			Timestamp: float64(1700000000 + i),
		}
		raw, err := json.Marshal(alert)
		require.NoError(t, err)
		require.NoError(t, f.fake.ZAdd(ctx, f.keys.AlertsActive(), alert.Timestamp, string(raw)))
	}

	rec, envelope := f.do(t, http.MethodGet, "/api/dashboard/alerts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(10), envelope["count"])

	alerts := envelope["alerts"].([]interface{})
	first := alerts[0].(map[string]interface{})
	assert.Equal(t, float64(1700000014), first["timestamp"])
}

func TestDashboardAlerts_EmptyIsSuccess(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/dashboard/alerts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, float64(0), envelope["count"])
}

func TestDashboardKPIs(t *testing.T) {
	f := newFixture(t)
	f.seedAssets(t)
	ctx := context.Background()

	require.NoError(t, f.fake.Set(ctx, f.keys.Metric("avg_temperature"), "132.50", 0))
	require.NoError(t, f.fake.Set(ctx, f.keys.Metric("avg_pressure"), "2450.00", 0))
	require.NoError(t, f.fake.Set(ctx, f.keys.AlertsCount(), "7", 0))

	rec, envelope := f.do(t, http.MethodGet, "/api/dashboard/kpis", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	kpis := envelope["kpis"].(map[string]interface{})
	assert.Equal(t, float64(len(f.reg.List())), kpis["total_assets"])
	assert.Equal(t, float64(132.5), kpis["avg_temperature"])
	assert.Equal(t, float64(7), kpis["total_alerts"])
	// 缺失的指标退化为 0 而不是报错
	assert.Equal(t, float64(0), kpis["total_production"])
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/sessions", `{"user_id": "operator_1", "user_data": {"role": "Field Operator"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	sessionID := envelope["session_id"].(string)
	require.NotEmpty(t, sessionID)

	rec, envelope = f.do(t, http.MethodGet, "/api/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	s := envelope["session"].(map[string]interface{})
	assert.Equal(t, "operator_1", s["user_id"])

	rec, envelope = f.do(t, http.MethodGet, "/api/sessions", "")
	assert.Equal(t, float64(1), envelope["count"])

	rec, envelope = f.do(t, http.MethodGet, "/api/sessions/metrics", "")
	metrics := envelope["metrics"].(map[string]interface{})
	assert.Equal(t, float64(1), metrics["total_active_sessions"])

	rec, _ = f.do(t, http.MethodDelete, "/api/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envelope = f.do(t, http.MethodGet, "/api/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestSessionCreate_RequiresUserID(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestMonitoringEndpoints(t *testing.T) {
	f := newFixture(t)

	f.mon.Record("dashboard", "HSET", "fieldops:sensor:latest:SEN-1", monitor.KindWrite)
	f.mon.Record("dashboard", "HGETALL", "fieldops:sensor:latest:SEN-1", monitor.KindRead)
	f.mon.Record("session", "HSET", "fieldops:session:abc", monitor.KindWrite)

	rec, envelope := f.do(t, http.MethodGet, "/api/monitor/commands?context=dashboard&count=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), envelope["count"])

	rec, envelope = f.do(t, http.MethodGet, "/api/monitor/stats", "")
	stats := envelope["stats"].(map[string]interface{})
	dashboard := stats["dashboard"].(map[string]interface{})
	assert.Equal(t, float64(1), dashboard["write_count"])
	assert.Equal(t, float64(1), dashboard["read_count"])

	rec, _ = f.do(t, http.MethodPost, "/api/monitor/clear?context=dashboard", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	_, envelope = f.do(t, http.MethodGet, "/api/monitor/commands?context=dashboard", "")
	assert.Equal(t, float64(0), envelope["count"])
	// 其它 context 不受影响
	_, envelope = f.do(t, http.MethodGet, "/api/monitor/commands?context=session", "")
	assert.Equal(t, float64(1), envelope["count"])
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", envelope["status"])
	assert.Equal(t, true, envelope["redis_connected"])
}

func TestHealth_StoreDown(t *testing.T) {
	f := newFixture(t)
	f.fake.FailOn["PING"] = assert.AnError

	rec, envelope := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "unhealthy", envelope["status"])
	assert.Equal(t, false, envelope["redis_connected"])
}

func TestSearchSuggestions_RejectsUnknownField(t *testing.T) {
	f := newFixture(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/search/suggestions?field=password", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestSearchAssets(t *testing.T) {
	f := newFixture(t)
	f.seedAssets(t)
	ctx := context.Background()

	require.NoError(t, f.fake.EnsureSearchIndex(ctx, f.keys.SearchIndex(), f.keys.AssetKeyPrefix()))

	rec, envelope := f.do(t, http.MethodGet, "/api/search/assets?type=production_well", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Contains(t, envelope["query"], "@type:{production_well}")
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/assets", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
