package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"offline-payment-sync/internal/errs"
)

// InitDB opens the reconciliation audit database.
func InitDB(cfg AuditConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "offline-sync.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, errs.Newf(errs.KindConfig, "unsupported audit driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open audit database (%s): %w", cfg.Driver, err)
	}

	log.Printf("[AUDIT] Connected to %s audit database", dialectorName(cfg.Driver))
	return db, nil
}

func dialectorName(driver string) string {
	if driver == "" {
		return "sqlite"
	}
	return driver
}
