package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fieldops-demo/internal/alerts"
	"fieldops-demo/internal/config"
	"fieldops-demo/internal/logger"
	"fieldops-demo/internal/metrics"
	"fieldops-demo/internal/monitor"
	"fieldops-demo/internal/registry"
	"fieldops-demo/internal/simulator"
	"fieldops-demo/internal/store"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "fieldops-simulator")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting fieldops-simulator service")

	// 连接 Redis
	mon := monitor.New(cfg.Monitor.Cap)
	client := store.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	st := store.NewRedisStore(client, mon)
	defer st.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Ping(pingCtx); err != nil {
		pingCancel()
		log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	pingCancel()
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 组装模拟器
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	keys := store.NewKeys(cfg.KeyPrefix)
	reg := registry.New(rng, log)
	met := metrics.New()

	sim := simulator.New(st, keys, reg,
		simulator.NewGenerator(st, keys, cfg.Simulator.StreamMaxLen, rng, log),
		alerts.NewEvaluator(cfg.Alerts.DedupBucket, log),
		alerts.NewWindow(cfg.Alerts.Cap),
		alerts.NewSink(st, keys, cfg.Alerts.Cap, log),
		met,
		simulator.Options{
			TickInterval: cfg.Simulator.TickInterval,
			StoreTimeout: cfg.Simulator.StoreTimeout,
			Box: simulator.BoundingBox{
				MinLat: cfg.Geo.MinLat,
				MaxLat: cfg.Geo.MaxLat,
				MinLon: cfg.Geo.MinLon,
				MaxLon: cfg.Geo.MaxLon,
			},
			MaxStepDeg:      cfg.Geo.MaxStepDeg,
			SystemAlertProb: cfg.Alerts.SystemAlertProb,
		},
		rng, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// prometheus /metrics
	metricsServer := &http.Server{Addr: cfg.Simulator.MetricsAddr, Handler: met.Handler()}
	go func() {
		log.Info("Metrics server listening", zap.String("addr", cfg.Simulator.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server error", zap.Error(err))
		}
	}()

	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		log.Error("Simulator error", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping metrics server", zap.Error(err))
	}

	log.Info("Service stopped")
}
