package main

import (
	"errors"
	"fmt"

	"vritti/backend/utils"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the profile tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runMigrate(rt)
		},
	}
}

func runMigrate(rt *runtime) error {
	if rt.db == nil {
		return errors.New("the memory driver has no tables to migrate")
	}
	if err := utils.Migrate(rt.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	rt.log.WithField("driver", rt.cfg.StoreDriver).Info("Migration complete")
	return nil
}
