package registry

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/models"
	"fieldops-demo/internal/store"
)

// ErrAssetNotFound 资产不存在
var ErrAssetNotFound = errors.New("asset not found")

// Registry 资产注册表：启动时从固定清单构建，读多写少。
// 位置/时间戳的变更只来自 tick 循环（单写者），读侧拿到的是快照拷贝。
type Registry struct {
	mu     sync.RWMutex
	order  []string
	assets map[string]*models.Asset
	rng    *rand.Rand
	logger *zap.Logger
}

// New 从固定清单构建注册表。rng 用于初始状态与文档元数据，测试可注入固定种子。
func New(rng *rand.Rand, logger *zap.Logger) *Registry {
	r := &Registry{
		order:  make([]string, 0, len(assetConfigs)),
		assets: make(map[string]*models.Asset, len(assetConfigs)),
		rng:    rng,
		logger: logger,
	}
	for _, cfg := range assetConfigs {
		asset := &models.Asset{
			ID:           cfg.ID,
			Name:         cfg.Name,
			Type:         cfg.Type,
			Manufacturer: cfg.Manufacturer,
			Model:        cfg.Model,
			Status:       r.initialStatus(),
			Latitude:     cfg.Lat,
			Longitude:    cfg.Lon,
			SensorID:     "SEN-" + cfg.ID,
			LastUpdate:   time.Now(),
		}
		r.order = append(r.order, cfg.ID)
		r.assets[cfg.ID] = asset
	}
	return r
}

// initialStatus 多数 active，少量 maintenance
func (r *Registry) initialStatus() models.AssetStatus {
	if r.rng.Float64() < 0.15 {
		return models.StatusMaintenance
	}
	return models.StatusActive
}

// List 按清单顺序返回资产快照
func (r *Registry) List() []models.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Asset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.assets[id])
	}
	return out
}

// Get 按 ID 返回资产快照
func (r *Registry) Get(id string) (models.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, ok := r.assets[id]
	if !ok {
		return models.Asset{}, ErrAssetNotFound
	}
	return *asset, nil
}

// SetPosition tick 循环更新移动资产位置
func (r *Registry) SetPosition(id string, lat, lon float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[id]
	if !ok {
		return ErrAssetNotFound
	}
	asset.Latitude = lat
	asset.Longitude = lon
	asset.LastUpdate = at
	return nil
}

// Touch 更新资产的最后刷新时间
func (r *Registry) Touch(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if asset, ok := r.assets[id]; ok {
		asset.LastUpdate = at
	}
}

// Register 把所有资产写入存储（JSON 文档 + 地理索引）。
// 模拟器启动时调用一次，失败视为致命错误。
func (r *Registry) Register(ctx context.Context, st store.Store, keys store.Keys) error {
	for _, asset := range r.List() {
		doc, err := r.buildDocument(asset)
		if err != nil {
			return err
		}
		if err := st.JSONSet(ctx, keys.Asset(asset.ID), "$", doc); err != nil {
			return err
		}
		if err := st.GeoAdd(ctx, keys.Locations(), asset.Longitude, asset.Latitude, asset.ID); err != nil {
			return err
		}
	}
	r.logger.Info("registered field assets", zap.Int("count", len(r.order)))
	return nil
}
