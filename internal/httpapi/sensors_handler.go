package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/store"
)

// SensorsHandler 传感器数据接入与查询
type SensorsHandler struct {
	st           store.Store
	keys         store.Keys
	streamMaxLen int64
	logger       *zap.Logger
}

// NewSensorsHandler 创建传感器 Handler
func NewSensorsHandler(st store.Store, keys store.Keys, streamMaxLen int64, logger *zap.Logger) *SensorsHandler {
	return &SensorsHandler{st: st, keys: keys, streamMaxLen: streamMaxLen, logger: logger}
}

type ingestRequest struct {
	SensorID    string   `json:"sensor_id"`
	Location    string   `json:"location"`
	Timestamp   *float64 `json:"timestamp"`
	Temperature *float64 `json:"temperature"`
	Pressure    *float64 `json:"pressure"`
	FlowRate    *float64 `json:"flow_rate"`
	Vibration   *float64 `json:"vibration"`
}

// Ingest 接收一条外部读数：写流 + 刷新快照
func (h *SensorsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ingestRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.SensorID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("sensor_id is required"))
		return
	}

	ts := float64(time.Now().UnixNano()) / float64(time.Second)
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	fields := map[string]interface{}{
		"sensor_id": req.SensorID,
		"location":  req.Location,
		"timestamp": strconv.FormatFloat(ts, 'f', 3, 64),
	}
	setChannel := func(name string, v *float64) {
		if v != nil {
			fields[name] = strconv.FormatFloat(*v, 'f', 2, 64)
		}
	}
	setChannel("temperature", req.Temperature)
	setChannel("pressure", req.Pressure)
	setChannel("flow_rate", req.FlowRate)
	setChannel("vibration", req.Vibration)

	streamID, err := h.st.XAdd(ctx, h.keys.SensorStream(req.SensorID), h.streamMaxLen, fields)
	if err != nil {
		h.logger.Error("Ingest stream append failed", zap.String("sensor_id", req.SensorID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	if err := h.st.HSet(ctx, h.keys.SensorLatest(req.SensorID), fields); err != nil {
		h.logger.Error("Ingest snapshot write failed", zap.String("sensor_id", req.SensorID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"stream_id": streamID,
		"sensor_id": req.SensorID,
	}))
}

// Stream 读取传感器流的最近 count 条（最新在前）
func (h *SensorsHandler) Stream(w http.ResponseWriter, r *http.Request, sensorID string) {
	ctx := r.Context()
	count := parseInt(r.URL.Query().Get("count"), 100)

	entries, err := h.st.XRevRangeN(ctx, h.keys.SensorStream(sensorID), int64(count))
	if err != nil {
		h.logger.Error("Stream read failed", zap.String("sensor_id", sensorID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	data := make([]Envelope, 0, len(entries))
	for _, entry := range entries {
		item := Envelope{"id": entry.ID}
		for field, value := range entry.Values {
			item[field] = value
		}
		data = append(data, item)
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"sensor_id": sensorID,
		"data":      data,
		"count":     len(data),
	}))
}

// Active 全部活跃传感器的最新快照
func (h *SensorsHandler) Active(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keys, err := h.st.ScanKeys(ctx, h.keys.SensorLatestPattern())
	if err != nil {
		h.logger.Error("Active sensor scan failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	sensors := make([]Envelope, 0, len(keys))
	for _, key := range keys {
		snapshot, err := h.st.HGetAll(ctx, key)
		if err != nil || len(snapshot) == 0 {
			continue
		}
		sensors = append(sensors, Envelope{
			"sensor_id":      h.keys.SensorIDFromLatestKey(key),
			"latest_reading": snapshot,
			"last_update":    snapshot["timestamp"],
		})
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"sensors": sensors,
		"count":   len(sensors),
	}))
}

// AssetSensors 归属于某资产的传感器快照
func (h *SensorsHandler) AssetSensors(w http.ResponseWriter, r *http.Request, assetID string) {
	ctx := r.Context()

	keys, err := h.st.ScanKeys(ctx, h.keys.SensorLatestPattern())
	if err != nil {
		h.logger.Error("AssetSensors scan failed", zap.String("asset_id", assetID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	sensors := make([]Envelope, 0)
	for _, key := range keys {
		snapshot, err := h.st.HGetAll(ctx, key)
		if err != nil || snapshot["location"] != assetID {
			continue
		}
		sensors = append(sensors, Envelope{
			"sensor_id":      h.keys.SensorIDFromLatestKey(key),
			"location":       snapshot["location"],
			"timestamp":      snapshot["timestamp"],
			"latest_reading": snapshot,
		})
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"asset_id": assetID,
		"sensors":  sensors,
		"count":    len(sensors),
	}))
}
