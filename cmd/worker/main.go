// Command worker runs the credit expiry sweep and marketplace settlement
// reconciler without serving HTTP. Run it alongside API instances started
// with RUN_WORKERS=false.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/config"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/credit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/feed"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/marketplace"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/user"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/database"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/logger"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		Service:     "carbon-worker",
	})

	if cfg.UsesMemoryStore() {
		log.Fatal().Msg("Worker needs a shared database; STORE_DRIVER=memory is not supported")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	creditService := credit.NewService(credit.NewRepository(db), credit.DefaultCatalog())
	marketService := marketplace.NewService(
		marketplace.NewRepository(db),
		payment.NewRepository(db),
		credit.NewLedger(creditService),
		user.NewService(user.NewRepository(db)),
		marketplace.Config{
			MinPricePerKg: cfg.MarketplaceMinPricePerKg,
			ListingTTL:    cfg.ListingTTL,
			PendingTTL:    cfg.PaymentPendingTTL,
			StaleAfter:    cfg.SettlementStaleAfter,
			UpiSuffix:     cfg.UpiHandleSuffix,
		},
	)
	if rdb != nil {
		marketService.SetPublisher(feed.NewRedisPublisher(rdb, "worker"))
	}

	receipts, err := storage.New(ctx, storage.Config{
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
	if receipts != nil {
		marketService.SetReceiptStore(receipts)
	}

	expiry := credit.NewExpiryWorker(creditService, cfg.CreditSweepInterval)
	expiry.Start()

	reconciler := marketplace.NewReconciler(marketService)
	go reconciler.Start(ctx, cfg.ReconcileInterval)

	log.Info().
		Dur("sweep_interval", cfg.CreditSweepInterval).
		Dur("reconcile_interval", cfg.ReconcileInterval).
		Msg("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")
	cancel()
	expiry.Stop()
	log.Info().Msg("Worker exited")
}
