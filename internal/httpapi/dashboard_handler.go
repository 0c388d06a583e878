package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/store"
)

// DashboardHandler 资产地图与 KPI
type DashboardHandler struct {
	st     store.Store
	keys   store.Keys
	logger *zap.Logger
}

// NewDashboardHandler 创建仪表盘 Handler
func NewDashboardHandler(st store.Store, keys store.Keys, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{st: st, keys: keys, logger: logger}
}

// assetSummary 地图列表用的精简资产视图
type assetSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	LastUpdate  string  `json:"last_update"`
}

// GetAssets 返回全部资产及其位置
func (h *DashboardHandler) GetAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := h.st.GeoMembers(ctx, h.keys.Locations())
	if err != nil {
		h.logger.Error("GetAssets failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	assets := make([]assetSummary, 0, len(members))
	for _, id := range members {
		lon, lat, err := h.st.GeoPos(ctx, h.keys.Locations(), id)
		if err != nil {
			continue
		}
		doc, err := h.assetDoc(r, id)
		if err != nil {
			continue
		}

		summary := assetSummary{
			ID:        id,
			Name:      id,
			Type:      "unknown",
			Status:    "active",
			Latitude:  lat,
			Longitude: lon,
		}
		if name, ok := doc["name"].(string); ok {
			summary.Name = name
		}
		if typ, ok := doc["type"].(string); ok {
			summary.Type = typ
		}
		if status, ok := doc["status"].(map[string]interface{}); ok {
			if state, ok := status["state"].(string); ok {
				summary.Status = state
			}
			if last, ok := status["last_update"].(string); ok {
				summary.LastUpdate = last
			}
		}
		if metrics, ok := doc["metrics"].(map[string]interface{}); ok {
			if v, ok := metrics["temperature"].(float64); ok {
				summary.Temperature = v
			}
			if v, ok := metrics["pressure"].(float64); ok {
				summary.Pressure = v
			}
		}
		assets = append(assets, summary)
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{"assets": assets, "count": len(assets)}))
}

// GetAsset 单个资产详情
func (h *DashboardHandler) GetAsset(w http.ResponseWriter, r *http.Request, assetID string) {
	ctx := r.Context()

	lon, lat, err := h.st.GeoPos(ctx, h.keys.Locations(), assetID)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			writeJSON(w, http.StatusNotFound, Fail("Asset not found"))
			return
		}
		h.logger.Error("GetAsset failed", zap.String("asset_id", assetID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	doc, err := h.assetDoc(r, assetID)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			writeJSON(w, http.StatusNotFound, Fail("Asset details not found"))
			return
		}
		h.logger.Error("GetAsset document failed", zap.String("asset_id", assetID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	detail := Envelope{
		"id":     assetID,
		"name":   doc["name"],
		"type":   doc["type"],
		"status": doc["status"],
		"location": Envelope{
			"latitude":  lat,
			"longitude": lon,
		},
		"metrics":     doc["metrics"],
		"model":       doc["model"],
		"maintenance": doc["maintenance"],
	}
	writeJSON(w, http.StatusOK, Ok(Envelope{"asset": detail}))
}

// GetNearbyAssets 查询指定坐标半径内的资产
func (h *DashboardHandler) GetNearbyAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		writeJSON(w, http.StatusBadRequest, Fail("lat and lon are required"))
		return
	}
	lat := parseFloat(latStr, 0)
	lon := parseFloat(lonStr, 0)
	radius := parseFloat(r.URL.Query().Get("radius"), 10)

	members, err := h.st.GeoRadius(ctx, h.keys.Locations(), lon, lat, radius)
	if err != nil {
		h.logger.Error("GetNearbyAssets failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	nearby := make([]Envelope, 0, len(members))
	for _, m := range members {
		entry := Envelope{
			"id":          m.Member,
			"name":        m.Member,
			"type":        "unknown",
			"distance_km": m.DistKM,
			"latitude":    m.Latitude,
			"longitude":   m.Longitude,
		}
		if doc, err := h.assetDoc(r, m.Member); err == nil {
			if name, ok := doc["name"].(string); ok {
				entry["name"] = name
			}
			if typ, ok := doc["type"].(string); ok {
				entry["type"] = typ
			}
		}
		nearby = append(nearby, entry)
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"nearby_assets": nearby,
		"search_center": Envelope{"lat": lat, "lon": lon},
		"radius_km":     radius,
		"count":         len(nearby),
	}))
}

type updateAssetRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    string   `json:"status"`
}

// UpdateAsset 更新资产位置与状态（地理索引 + JSON 文档）
func (h *DashboardHandler) UpdateAsset(w http.ResponseWriter, r *http.Request, assetID string) {
	ctx := r.Context()

	var req updateAssetRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeJSON(w, http.StatusBadRequest, Fail("latitude and longitude are required"))
		return
	}

	raw, err := h.st.JSONGet(ctx, h.keys.Asset(assetID))
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			writeJSON(w, http.StatusNotFound, Fail("Asset not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	if err := h.st.GeoAdd(ctx, h.keys.Locations(), *req.Longitude, *req.Latitude, assetID); err != nil {
		h.logger.Error("UpdateAsset geo write failed", zap.String("asset_id", assetID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err == nil {
		if asset, ok := doc["asset"].(map[string]interface{}); ok {
			if location, ok := asset["location"].(map[string]interface{}); ok {
				location["latitude"] = *req.Latitude
				location["longitude"] = *req.Longitude
			}
			if status, ok := asset["status"].(map[string]interface{}); ok {
				if req.Status != "" {
					status["state"] = req.Status
				}
				status["last_update"] = time.Now().Format(time.RFC3339)
			}
		}
		if updated, err := json.Marshal(doc); err == nil {
			if err := h.st.JSONSet(ctx, h.keys.Asset(assetID), "$", string(updated)); err != nil {
				h.logger.Warn("UpdateAsset document write failed", zap.String("asset_id", assetID), zap.Error(err))
			}
		}
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{"message": "Asset " + assetID + " updated"}))
}

// GetKPIs 仪表盘核心指标。单项读取失败按 0 处理，不让整个面板失败。
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalAssets := 0
	if members, err := h.st.GeoMembers(ctx, h.keys.Locations()); err == nil {
		totalAssets = len(members)
	}

	activeSensors := 0
	if keys, err := h.st.ScanKeys(ctx, h.keys.SensorLatestPattern()); err == nil {
		activeSensors = len(keys)
	}

	kpis := Envelope{
		"total_assets":     totalAssets,
		"active_sensors":   activeSensors,
		"total_alerts":     h.floatValue(r, h.keys.AlertsCount()),
		"avg_temperature":  h.floatValue(r, h.keys.Metric("avg_temperature")),
		"avg_pressure":     h.floatValue(r, h.keys.Metric("avg_pressure")),
		"total_production": h.floatValue(r, h.keys.Metric("total_production")),
		"system_uptime":    h.floatValue(r, h.keys.Uptime()),
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"kpis":      kpis,
		"timestamp": time.Now().Format(time.RFC3339),
	}))
}

func (h *DashboardHandler) floatValue(r *http.Request, key string) float64 {
	value, err := h.st.Get(r.Context(), key)
	if err != nil {
		return 0
	}
	return parseFloat(value, 0)
}

// assetDoc 读取并解包 JSON 文档的 asset 节点
func (h *DashboardHandler) assetDoc(r *http.Request, assetID string) (map[string]interface{}, error) {
	raw, err := h.st.JSONGet(r.Context(), h.keys.Asset(assetID))
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	asset, ok := doc["asset"].(map[string]interface{})
	if !ok {
		return nil, store.ErrMiss
	}
	return asset, nil
}
