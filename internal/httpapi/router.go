package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 prometheus 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterDashboardRoutes 资产与 KPI 路由
func (r *Router) RegisterDashboardRoutes(d *DashboardHandler, s *SensorsHandler) {
	r.Handle("/api/assets", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.GetAssets(w, req)
	})

	// /api/assets/nearby、/api/assets/{id}、/api/assets/{id}/update、/api/assets/{id}/sensors
	r.Handle("/api/assets/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/assets/")
		switch {
		case rest == "nearby" && req.Method == http.MethodGet:
			d.GetNearbyAssets(w, req)
		case strings.HasSuffix(rest, "/update") && req.Method == http.MethodPost:
			id := strings.TrimSuffix(rest, "/update")
			if id == "" || strings.Contains(id, "/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			d.UpdateAsset(w, req, id)
		case strings.HasSuffix(rest, "/sensors") && req.Method == http.MethodGet:
			id := strings.TrimSuffix(rest, "/sensors")
			if id == "" || strings.Contains(id, "/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			s.AssetSensors(w, req, id)
		case rest != "" && !strings.Contains(rest, "/") && req.Method == http.MethodGet:
			d.GetAsset(w, req, rest)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	r.Handle("/api/dashboard/kpis", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.GetKPIs(w, req)
	})
}

// RegisterSensorRoutes 传感器数据路由
func (r *Router) RegisterSensorRoutes(s *SensorsHandler) {
	r.Handle("/api/sensors/data", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.Ingest(w, req)
	})

	r.Handle("/api/sensors/active", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.Active(w, req)
	})

	// /api/sensors/{id}/stream
	r.Handle("/api/sensors/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/sensors/")
		if strings.HasSuffix(rest, "/stream") && req.Method == http.MethodGet {
			id := strings.TrimSuffix(rest, "/stream")
			if id != "" && !strings.Contains(id, "/") {
				s.Stream(w, req, id)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
}

// RegisterAlertRoutes 报警路由
func (r *Router) RegisterAlertRoutes(a *AlertsHandler) {
	r.Handle("/api/dashboard/alerts", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		a.GetDashboardAlerts(w, req)
	})
}

// RegisterSearchRoutes RediSearch 路由
func (r *Router) RegisterSearchRoutes(s *SearchHandler) {
	r.Handle("/api/search/assets", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.SearchAssets(w, req)
	})

	r.Handle("/api/search/suggestions", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.Suggestions(w, req)
	})
}

// RegisterSessionRoutes 会话路由
func (r *Router) RegisterSessionRoutes(s *SessionsHandler) {
	r.Handle("/api/sessions", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			s.List(w, req)
		case http.MethodPost:
			s.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// /api/sessions/metrics、/api/sessions/{id}
	r.Handle("/api/sessions/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/sessions/")
		if rest == "" || strings.Contains(rest, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case rest == "metrics" && req.Method == http.MethodGet:
			s.Metrics(w, req)
		case req.Method == http.MethodGet:
			s.Get(w, req, rest)
		case req.Method == http.MethodDelete:
			s.Delete(w, req, rest)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterMonitoringRoutes 命令监视路由
func (r *Router) RegisterMonitoringRoutes(m *MonitoringHandler) {
	r.Handle("/api/monitor/commands", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		m.Commands(w, req)
	})

	r.Handle("/api/monitor/stats", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		m.Stats(w, req)
	})

	r.Handle("/api/monitor/clear", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		m.Clear(w, req)
	})
}

// RegisterHealthRoutes 健康检查路由
func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Health(w, req)
	})
}
