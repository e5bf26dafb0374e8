package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/config"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/database"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/logger"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("store", cfg.StoreDriver).
		Msg("Starting Carbon API")

	if cfg.IsProduction() && cfg.JWTSecret == config.DefaultJWTSecret {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}

	st, err := openStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stores")
	}
	defer st.close()

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	receipts, err := storage.New(context.Background(), storage.Config{
		Driver:      cfg.ReceiptStore,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		LocalPath:   cfg.ReceiptLocalPath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create receipt store")
	}

	a := buildApp(cfg, st, rdb, receipts)
	defer a.hub.Shutdown()

	if err := a.auth.BootstrapAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin account")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	if cfg.RunWorkers {
		a.expiry.Start()
		go a.reconciler.Start(workerCtx, cfg.ReconcileInterval)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopWorkers()
	if cfg.RunWorkers {
		a.expiry.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		Service:     "carbon-api",
	})
}
