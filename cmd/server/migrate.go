package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baseapi/internal/platform/config"
	"baseapi/internal/platform/logger"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store.Driver == config.StoreMemory {
		return fmt.Errorf("migrate needs a SQL store, got %q", cfg.Store.Driver)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.IsProduction())

	db, err := openSQL(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(cmd.Context()); err != nil {
		return err
	}
	log.Info("schema applied", "store", cfg.Store.Driver)
	return nil
}
