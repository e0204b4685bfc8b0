package main

import (
	"errors"

	"skillbook/internal/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return errors.New("migrate needs DB_DRIVER=postgres or DB_DRIVER=mysql")
			}

			store, err := openPersistence(cfg)
			if err != nil {
				return err
			}
			store.Close()
			return nil
		},
	}
}
