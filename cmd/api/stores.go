package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/config"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/company"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/credit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/emission"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/marketplace"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/user"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/database"
)

// stores holds one repository per aggregate, all from the same driver.
type stores struct {
	users     user.Repository
	companies company.Repository
	emissions emission.Repository
	factors   emission.FactorRepository
	credits   credit.Repository
	listings  marketplace.Repository
	payments  payment.Repository

	close func()
}

func memoryStores() *stores {
	return &stores{
		users:     user.NewMemoryRepository(),
		companies: company.NewMemoryRepository(),
		emissions: emission.NewMemoryRepository(),
		factors:   emission.NewMemoryFactorRepository(),
		credits:   credit.NewMemoryRepository(),
		listings:  marketplace.NewMemoryRepository(),
		payments:  payment.NewMemoryRepository(),
		close:     func() {},
	}
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.UsesMemoryStore() {
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return memoryStores(), nil
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			database.ClosePostgres(db)
			return nil, err
		}
	}

	return &stores{
		users:     user.NewRepository(db),
		companies: company.NewRepository(db),
		emissions: emission.NewRepository(db),
		factors:   emission.NewFactorRepository(db),
		credits:   credit.NewRepository(db),
		listings:  marketplace.NewRepository(db),
		payments:  payment.NewRepository(db),
		close:     func() { database.ClosePostgres(db) },
	}, nil
}
