package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/config"
	"fieldops-demo/internal/httpapi"
	"fieldops-demo/internal/logger"
	"fieldops-demo/internal/metrics"
	"fieldops-demo/internal/monitor"
	"fieldops-demo/internal/session"
	"fieldops-demo/internal/store"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "fieldops-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting fieldops-api service")

	// 连接 Redis（命令经由监视器记录，供 /api/monitor 展示）
	mon := monitor.New(cfg.Monitor.Cap)
	client := store.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	st := store.NewRedisStore(client, mon)
	defer st.Close()

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startCancel()

	if err := st.Ping(startCtx); err != nil {
		log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	keys := store.NewKeys(cfg.KeyPrefix)

	// 搜索索引（模块缺失时只告警，检索端点会报错但其余 API 可用）
	if err := st.EnsureSearchIndex(startCtx, keys.SearchIndex(), keys.AssetKeyPrefix()); err != nil {
		log.Warn("Failed to ensure search index", zap.Error(err))
	} else {
		log.Info("Search index ready", zap.String("index", keys.SearchIndex()))
	}

	// 会话管理 + 演示用户
	sessions := session.NewManager(st, keys, cfg.Session.TTL, log)
	sessions.SeedDemoUsers(startCtx)

	met := metrics.New()

	// 路由
	router := httpapi.NewRouter(log)
	sensorsHandler := httpapi.NewSensorsHandler(st, keys, cfg.Simulator.StreamMaxLen, log)
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(st, keys, log), sensorsHandler)
	router.RegisterSensorRoutes(sensorsHandler)
	router.RegisterAlertRoutes(httpapi.NewAlertsHandler(st, keys, log))
	router.RegisterSearchRoutes(httpapi.NewSearchHandler(st, keys, log))
	router.RegisterSessionRoutes(httpapi.NewSessionsHandler(sessions, log))
	router.RegisterMonitoringRoutes(httpapi.NewMonitoringHandler(mon))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(st))
	router.HandleHandler("/metrics", met.Handler())

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("HTTP server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping HTTP server", zap.Error(err))
	}

	log.Info("Service stopped")
}
