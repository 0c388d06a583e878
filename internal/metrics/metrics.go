package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 模拟器/API 的 prometheus 指标。
// 独立 Registry，避免测试中重复注册冲突。
type Metrics struct {
	registry *prometheus.Registry

	Ticks            prometheus.Counter
	Readings         prometheus.Counter
	Alerts           *prometheus.CounterVec
	StoreErrors      prometheus.Counter
	AssetsRegistered prometheus.Gauge
}

// New 创建并注册指标
func New() *Metrics {
	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldops_ticks_total",
		Help: "Completed simulator ticks.",
	})
	readings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldops_readings_total",
		Help: "Sensor readings written to the store.",
	})
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_alerts_total",
		Help: "Alerts emitted, by severity.",
	}, []string{"severity"})
	storeErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldops_store_errors_total",
		Help: "Failed store operations inside ticks.",
	})
	assets := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fieldops_assets_registered",
		Help: "Assets registered at simulator startup.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(ticks, readings, alerts, storeErrors, assets)

	return &Metrics{
		registry:         registry,
		Ticks:            ticks,
		Readings:         readings,
		Alerts:           alerts,
		StoreErrors:      storeErrors,
		AssetsRegistered: assets,
	}
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
