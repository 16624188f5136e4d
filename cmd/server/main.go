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

	"voicemarket/config"
	"voicemarket/internal/api"
	"voicemarket/internal/broker"
	"voicemarket/internal/redisclient"
	"voicemarket/internal/service"
	"voicemarket/internal/session"
	"voicemarket/internal/store"
	"voicemarket/internal/util"
	"voicemarket/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting voicemarket")

	tp, err := util.InitTracer("voicemarket", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	var (
		publisher   service.Publisher
		idempotency service.IdempotencyStore
		activity    api.ActivityLister
		checks      []api.ReadinessCheck
		db          *store.Store
	)

	if cfg.Database.URL != "" {
		db, err = store.NewStore(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(context.Background()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		activity = db
		checks = append(checks, api.ReadinessCheck{Name: "database", Check: db.Ping})
		logger.Info("Database connected")
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		idempotency = redisClient
		checks = append(checks, api.ReadinessCheck{Name: "redis", Check: redisClient.Ping})
		logger.Info("Redis connected")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var activityWorker *worker.ActivityWorker
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		if db != nil {
			consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
			activityWorker = worker.NewActivityWorker(consumer, db)
			go func() {
				if err := activityWorker.Start(workerCtx); err != nil && err != context.Canceled {
					logger.Error("Activity worker error", zap.Error(err))
				}
			}()
		}
	}

	timings := session.Timings{
		AuthDelay:     cfg.Mock.AuthDelay,
		RedirectDelay: cfg.Mock.RedirectDelay,
		WordInterval:  cfg.Mock.WordInterval,
		SettleDelay:   cfg.Mock.SettleDelay,
		MatchDelay:    cfg.Mock.MatchDelay,
	}

	authService := service.NewAuthService(timings, cfg.Mock.AuthRetention, publisher)
	vendorService := service.NewVendorService(timings, nil, publisher, idempotency, cfg.Redis.IdempotencyTTL)
	supplierService := service.NewSupplierService(publisher, idempotency, cfg.Redis.IdempotencyTTL)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(authService, vendorService, supplierService, activity, checks...)
	handler.SetupRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Idempotency-Key"},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: corsHandler.Handler(router),
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
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

	authService.CloseAll()
	vendorService.CloseAll()
	supplierService.CloseAll()

	workerCancel()
	if activityWorker != nil {
		if err := activityWorker.Stop(); err != nil {
			logger.Warn("Error stopping activity worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
