package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg := Load()
	assert.NotNil(t, cfg)

	// 验证默认值
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, "fieldops", cfg.KeyPrefix)
	assert.Equal(t, ":5001", cfg.HTTP.Addr)

	assert.Equal(t, 5*time.Second, cfg.Simulator.TickInterval)
	assert.Equal(t, 3*time.Second, cfg.Simulator.StoreTimeout)
	assert.Equal(t, int64(1000), cfg.Simulator.StreamMaxLen)

	assert.Equal(t, 50, cfg.Alerts.Cap)
	assert.Equal(t, 5*time.Second, cfg.Alerts.DedupBucket)

	assert.Equal(t, 500, cfg.Monitor.Cap)

	assert.Equal(t, 30.5, cfg.Geo.MinLat)
	assert.Equal(t, 33.5, cfg.Geo.MaxLat)
	assert.Equal(t, -103.5, cfg.Geo.MinLon)
	assert.Equal(t, -100.5, cfg.Geo.MaxLon)

	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Clearenv()
	os.Setenv("REDIS_ADDR", "test-redis:6380")
	os.Setenv("REDIS_PASSWORD", "test-password")
	os.Setenv("REDIS_DB", "3")
	os.Setenv("KEY_PREFIX", "testops")
	os.Setenv("TICK_INTERVAL", "2s")
	os.Setenv("ALERT_CAP", "10")
	os.Setenv("ALERT_DEDUP_BUCKET", "2s")
	os.Setenv("COMMAND_LOG_CAP", "64")
	os.Setenv("GEO_MAX_STEP", "0.05")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Clearenv()

	cfg := Load()

	// 验证环境变量覆盖
	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "test-password", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "testops", cfg.KeyPrefix)
	assert.Equal(t, 2*time.Second, cfg.Simulator.TickInterval)
	assert.Equal(t, 10, cfg.Alerts.Cap)
	assert.Equal(t, 2*time.Second, cfg.Alerts.DedupBucket)
	assert.Equal(t, 64, cfg.Monitor.Cap)
	assert.Equal(t, 0.05, cfg.Geo.MaxStepDeg)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("REDIS_DB", "not-a-number")
	os.Setenv("TICK_INTERVAL", "soon")
	os.Setenv("GEO_MAX_STEP", "wide")
	defer os.Clearenv()

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Second, cfg.Simulator.TickInterval)
	assert.Equal(t, 0.01, cfg.Geo.MaxStepDeg)
}
