package config

import (
	"os"
	"strconv"
	"time"
)

// Config 油田遥测演示服务配置
type Config struct {
	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// Redis key 前缀，如 "fieldops"
	KeyPrefix string

	HTTP struct {
		Addr string
	}

	Simulator struct {
		TickInterval time.Duration // 全量 tick 周期
		StoreTimeout time.Duration // 单个 tick 内存储操作总超时
		StreamMaxLen int64         // 每个传感器流的近似保留长度
		MetricsAddr  string        // prometheus /metrics 监听地址
	}

	Alerts struct {
		Cap             int           // 有界报警集合容量
		DedupBucket     time.Duration // 报警 ID 去重时间桶
		SystemAlertProb float64       // 每个 tick 生成系统级报警的概率
	}

	Monitor struct {
		Cap int // 每个 context 的命令日志容量
	}

	// 演示区域边界框（Permian Basin 附近）
	Geo struct {
		MinLat     float64
		MaxLat     float64
		MinLon     float64
		MaxLon     float64
		MaxStepDeg float64 // 移动资产每个 tick 的最大经纬度扰动
	}

	Session struct {
		TTL time.Duration
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置（带默认值）
func Load() *Config {
	cfg := &Config{}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.KeyPrefix = getEnv("KEY_PREFIX", "fieldops")

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":5001")

	cfg.Simulator.TickInterval = getEnvDuration("TICK_INTERVAL", 5*time.Second)
	cfg.Simulator.StoreTimeout = getEnvDuration("STORE_TIMEOUT", 3*time.Second)
	cfg.Simulator.StreamMaxLen = int64(getEnvInt("STREAM_MAXLEN", 1000))
	cfg.Simulator.MetricsAddr = getEnv("METRICS_ADDR", ":9100")

	cfg.Alerts.Cap = getEnvInt("ALERT_CAP", 50)
	cfg.Alerts.DedupBucket = getEnvDuration("ALERT_DEDUP_BUCKET", 5*time.Second)
	cfg.Alerts.SystemAlertProb = getEnvFloat("SYSTEM_ALERT_PROB", 0.3)

	cfg.Monitor.Cap = getEnvInt("COMMAND_LOG_CAP", 500)

	cfg.Geo.MinLat = getEnvFloat("GEO_MIN_LAT", 30.5)
	cfg.Geo.MaxLat = getEnvFloat("GEO_MAX_LAT", 33.5)
	cfg.Geo.MinLon = getEnvFloat("GEO_MIN_LON", -103.5)
	cfg.Geo.MaxLon = getEnvFloat("GEO_MAX_LON", -100.5)
	cfg.Geo.MaxStepDeg = getEnvFloat("GEO_MAX_STEP", 0.01)

	cfg.Session.TTL = getEnvDuration("SESSION_TTL", 7*24*time.Hour)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
