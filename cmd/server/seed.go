package main

import (
	"skillbook/internal/config"
	"skillbook/internal/pkg/password"

	"github.com/spf13/cobra"
)

func newSeedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the ADMIN account from ADMIN_USERNAME and ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := openPersistence(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			hasher := password.NewBcryptHasher(cfg.Security.BcryptCost)
			_, err = config.NewSeeder(store.users, hasher, cfg.Admin).SeedAdminUser(cmd.Context())
			return err
		},
	}
}
