package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/app"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/config"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/gateway"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/handler"
	internalRedis "github.com/Mikelesnr/alx-travel-app-0x02/internal/redis"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/repository/postgres"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Errorw("failed to initialize New Relic", "error", err)
		} else {
			logger.Infow("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	if cfg.Chapa.SecretKey == "" {
		logger.Warn("CHAPA_SECRET_KEY is empty; gateway calls will be rejected")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg, logger)

	// Start server in goroutine.
	go func() {
		logger.Infow("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server error", "error", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalw("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *zap.SugaredLogger) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	paymentRepo := postgres.NewPaymentRepository(db)

	// Initialize gateway client and services.
	chapaClient := gateway.NewChapaClient(cfg.Chapa, logger)
	notificationService := service.NewNotificationService(logger)
	paymentService := service.NewPaymentService(paymentRepo, chapaClient, lockStore, cacheStore, notificationService, cfg.Chapa, logger)

	// Initialize handlers.
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		PaymentHandler: paymentHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
