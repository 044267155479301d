package main

import (
	"fmt"
	"os"

	"vritti/backend/config"
	"vritti/backend/store"
	"vritti/backend/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:           "vritti",
		Short:         "Vritti assessment and profile service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newAssessCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runtime holds what every command opens from the configuration.
type runtime struct {
	cfg     *config.Config
	log     *logrus.Logger
	db      *gorm.DB
	backend store.Backend
}

// bootstrap opens everything a command needs. serve and assess pass
// autoMigrate so a fresh SQLite file works without a separate migrate run.
func bootstrap(autoMigrate bool) (*runtime, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	logger := utils.InitLogger(cfg)

	// Initialize database
	db, err := utils.InitDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	if db != nil && autoMigrate {
		if err := utils.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	backend, err := utils.OpenBackend(cfg, db)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: logger, db: db, backend: backend}, nil
}

func (r *runtime) Close() {
	if r.db == nil {
		return
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
