package utils

import (
	"fmt"

	"vritti/backend/config"
	"vritti/backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured SQL database. It returns nil, nil for the
// memory driver, which needs no database.
func InitDB(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return nil, nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.StoreDriver, err)
	}
	log.WithField("driver", cfg.StoreDriver).Info("Database connected")
	return db, nil
}

// Migrate creates or updates the profile tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
