package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msrikanth38/90s-jar/config"
	"github.com/msrikanth38/90s-jar/internal/api"
	"github.com/msrikanth38/90s-jar/internal/broker"
	"github.com/msrikanth38/90s-jar/internal/redisclient"
	"github.com/msrikanth38/90s-jar/internal/service"
	"github.com/msrikanth38/90s-jar/internal/store"
	"github.com/msrikanth38/90s-jar/internal/util"
	"github.com/msrikanth38/90s-jar/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting jar service")

	shutdownTracer, err := util.InitTracer(cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	ctx := context.Background()

	db, err := store.Open(ctx, store.Options{
		DatabaseURL: cfg.Database.URL,
		File:        cfg.Database.File,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database ready", zap.String("backend", db.Dialect().Name()))

	checks := map[string]api.Pinger{"database": db}

	var idempotency service.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.IdempotencyTTL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		idempotency = redisClient
		checks["redis"] = redisClient
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var producer broker.Publisher = broker.NewNoopProducer()
	if cfg.Kafka.Enabled() {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	defer producer.Close()

	eventPublisher := broker.NewEventPublisher(producer)

	services := api.Services{
		Orders:    service.NewOrderService(db, idempotency, eventPublisher),
		Catalog:   service.NewCatalogService(db),
		Customers: service.NewCustomerService(db),
		Finance:   service.NewFinanceService(db),
		Reports:   service.NewReportService(db),
		Settings:  service.NewSettingsService(db),
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var stockWorker *worker.StockAlertWorker
	if cfg.Kafka.Enabled() {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		stockWorker = worker.NewStockAlertWorker(consumer, db)
		go func() {
			if err := stockWorker.Start(workerCtx); err != nil {
				logger.Error("Stock alert worker error", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, api.Options{
		StaticDir:      cfg.Server.StaticDir,
		Backend:        db.Dialect().Name(),
		DatabaseURLSet: cfg.Database.UsePostgres(),
		Checks:         checks,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if stockWorker != nil {
		if err := stockWorker.Stop(); err != nil {
			logger.Warn("Error stopping stock alert worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
