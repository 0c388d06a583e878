package simulator

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/alerts"
	"fieldops-demo/internal/metrics"
	"fieldops-demo/internal/models"
	"fieldops-demo/internal/registry"
	"fieldops-demo/internal/store"
)

// Options 模拟器运行参数
type Options struct {
	TickInterval    time.Duration
	StoreTimeout    time.Duration
	Box             BoundingBox
	MaxStepDeg      float64
	SystemAlertProb float64
}

// Simulator 锁步 tick 循环：每个 tick 依次完成
// 遥测生成、报警评估、移动资产位置扰动、仪表盘聚合。
// 单写者模型：所有对注册表与随机游走状态的写入都在这里发生。
type Simulator struct {
	st     store.Store
	keys   store.Keys
	reg    *registry.Registry
	gen    *Generator
	eval   *alerts.Evaluator
	window *alerts.Window
	sink   *alerts.Sink
	met    *metrics.Metrics
	opts   Options
	rng    *rand.Rand
	logger *zap.Logger
}

// New 组装模拟器
func New(st store.Store, keys store.Keys, reg *registry.Registry, gen *Generator,
	eval *alerts.Evaluator, window *alerts.Window, sink *alerts.Sink,
	met *metrics.Metrics, opts Options, rng *rand.Rand, logger *zap.Logger) *Simulator {
	return &Simulator{
		st:     st,
		keys:   keys,
		reg:    reg,
		gen:    gen,
		eval:   eval,
		window: window,
		sink:   sink,
		met:    met,
		opts:   opts,
		rng:    rng,
		logger: logger,
	}
}

// Run 阻塞运行 tick 循环直到 ctx 取消。
// 启动时先注册资产并记录系统启动时间，注册失败直接返回错误。
func (s *Simulator) Run(ctx context.Context) error {
	startCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	if err := s.reg.Register(startCtx, s.st, s.keys); err != nil {
		return err
	}
	s.met.AssetsRegistered.Set(float64(len(s.reg.List())))

	uptime := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.st.Set(startCtx, s.keys.Uptime(), uptime, 0); err != nil {
		s.logger.Warn("failed to record system start time", zap.Error(err))
	}

	s.logger.Info("simulator started",
		zap.Duration("tick_interval", s.opts.TickInterval),
		zap.Duration("store_timeout", s.opts.StoreTimeout),
	)

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulator stopping")
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}

// Tick 执行一个完整 tick。存储故障只影响出错的传感器/资产，
// 不会让整个 tick 失败；下一个 tick 总会发生。
func (s *Simulator) Tick(ctx context.Context, now time.Time) {
	tctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	for _, asset := range s.reg.List() {
		reading := s.gen.Next(asset, now)
		if err := s.gen.Emit(tctx, reading); err != nil {
			s.met.StoreErrors.Inc()
			continue
		}
		s.met.Readings.Inc()
		s.reg.Touch(asset.ID, now)

		for _, alert := range s.eval.Evaluate(reading, asset) {
			s.publish(tctx, alert)
		}
	}

	s.moveMobileAssets(tctx, now)
	s.updateDashboard(tctx)

	if s.rng.Float64() < s.opts.SystemAlertProb {
		s.publish(tctx, alerts.RandomSystemAlert(s.rng, now))
	}

	s.met.Ticks.Inc()
}

// publish 报警先进内存窗口（同 ID 去重），再发布到存储
func (s *Simulator) publish(ctx context.Context, alert models.Alert) {
	replaced := s.window.Add(alert)
	if err := s.sink.Publish(ctx, alert, replaced); err != nil {
		s.met.StoreErrors.Inc()
		s.logger.Warn("failed to publish alert", zap.String("alert_id", alert.ID), zap.Error(err))
		return
	}
	if replaced == nil {
		s.met.Alerts.WithLabelValues(string(alert.Severity)).Inc()
	}
}

// moveMobileAssets 对移动资产做一次位置扰动：
// 地理索引、JSON 文档、内存注册表三处同步更新。
func (s *Simulator) moveMobileAssets(ctx context.Context, now time.Time) {
	for _, asset := range s.reg.List() {
		if !asset.Type.Mobile() {
			continue
		}

		lat, lon := Advance(asset.Latitude, asset.Longitude, s.opts.Box, s.opts.MaxStepDeg, s.rng)

		if err := s.st.GeoAdd(ctx, s.keys.Locations(), lon, lat, asset.ID); err != nil {
			s.met.StoreErrors.Inc()
			s.logger.Warn("failed to update asset position", zap.String("asset_id", asset.ID), zap.Error(err))
			continue
		}
		if err := s.updateDocumentPosition(ctx, asset.ID, lat, lon, now); err != nil {
			s.met.StoreErrors.Inc()
			s.logger.Warn("failed to update asset document position", zap.String("asset_id", asset.ID), zap.Error(err))
		}
		if err := s.reg.SetPosition(asset.ID, lat, lon, now); err != nil {
			s.logger.Warn("failed to update registry position", zap.String("asset_id", asset.ID), zap.Error(err))
		}
	}
}

// updateDocumentPosition 重写 JSON 文档中的位置与最后更新时间
func (s *Simulator) updateDocumentPosition(ctx context.Context, assetID string, lat, lon float64, now time.Time) error {
	key := s.keys.Asset(assetID)

	raw, err := s.st.JSONGet(ctx, key)
	if err != nil {
		return err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return err
	}

	asset, _ := doc["asset"].(map[string]interface{})
	if asset == nil {
		asset = make(map[string]interface{})
		doc["asset"] = asset
	}
	location, _ := asset["location"].(map[string]interface{})
	if location == nil {
		location = make(map[string]interface{})
		asset["location"] = location
	}
	location["latitude"] = lat
	location["longitude"] = lon
	if status, ok := asset["status"].(map[string]interface{}); ok {
		status["last_update"] = now.Format(time.RFC3339)
	}

	updated, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.st.JSONSet(ctx, key, "$", string(updated))
}

// updateDashboard 从快照 hash 聚合仪表盘指标：
// 平均温度/压力、总产量（流量之和）。单次扫描失败跳过本 tick 聚合。
func (s *Simulator) updateDashboard(ctx context.Context) {
	keys, err := s.st.ScanKeys(ctx, s.keys.SensorLatestPattern())
	if err != nil {
		s.met.StoreErrors.Inc()
		s.logger.Warn("failed to scan sensor snapshots", zap.Error(err))
		return
	}

	var tempSum, tempN, pressSum, pressN, flowSum float64
	for _, key := range keys {
		snapshot, err := s.st.HGetAll(ctx, key)
		if err != nil {
			s.met.StoreErrors.Inc()
			continue
		}
		if v, err := strconv.ParseFloat(snapshot[string(models.ChannelTemperature)], 64); err == nil {
			tempSum += v
			tempN++
		}
		if v, err := strconv.ParseFloat(snapshot[string(models.ChannelPressure)], 64); err == nil {
			pressSum += v
			pressN++
		}
		if v, err := strconv.ParseFloat(snapshot[string(models.ChannelFlowRate)], 64); err == nil {
			flowSum += v
		}
	}

	s.setMetric(ctx, "avg_temperature", avg(tempSum, tempN))
	s.setMetric(ctx, "avg_pressure", avg(pressSum, pressN))
	s.setMetric(ctx, "total_production", flowSum)
}

func (s *Simulator) setMetric(ctx context.Context, name string, value float64) {
	if err := s.st.Set(ctx, s.keys.Metric(name), strconv.FormatFloat(value, 'f', 2, 64), 0); err != nil {
		s.met.StoreErrors.Inc()
		s.logger.Warn("failed to write dashboard metric", zap.String("metric", name), zap.Error(err))
	}
}

func avg(sum, n float64) float64 {
	if n == 0 {
		return 0
	}
	return sum / n
}
