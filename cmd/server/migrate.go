package main

import (
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"org-directory-service/internal/domain/seed"
	"org-directory-service/internal/infrastructure/database"
)

func newMigrateCommand() *cobra.Command {
	flags := newEnvFlags()
	flags[modeFlag] = &cobraflags.StringFlag{
		Name:  modeFlag,
		Value: "",
		Usage: "Migration mode (auto, drop, none); DB_MIGRATION_MODE is used when empty",
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer log.Sync()

			mode := flags[modeFlag].GetString()
			if mode == "" {
				mode = cfg.DBMigrationMode
			}

			pool, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			return database.Migrate(cmd.Context(), pool.GetDB(), mode, log)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newSeedCommand() *cobra.Command {
	flags := newEnvFlags()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the reference dataset into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer log.Sync()

			pool, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeded, err := database.Seed(cmd.Context(), pool.GetDB(), seed.Reference(), log)
			if err != nil {
				return err
			}
			log.Info("seed finished", zap.Bool("seeded", seeded))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newPurgeCommand() *cobra.Command {
	flags := newEnvFlags()

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every directory row (links, phones, organizations, activities, buildings)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer log.Sync()

			pool, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			return database.Purge(cmd.Context(), pool.GetDB(), log)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
