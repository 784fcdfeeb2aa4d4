// Command migrate creates the schema and loads demo data.
package main

import (
	"log/slog"
	"os"

	"rentalhub/config"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/postgres"
	"rentalhub/internal/infra/persistence/sqlite"

	"github.com/lmittmann/tint"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type options struct {
	sqlitePath string
	password   string
}

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, nil))

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the rentalhub database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "use the SQLite file at this path instead of PostgreSQL")

	root.AddCommand(newUpCmd(logger, opts), newSeedCmd(logger, opts))

	return root
}

func newUpCmd(logger *slog.Logger, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := openDB(opts)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := postgres.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
				return err
			}
			logger.Info("Schema is up to date")

			return nil
		},
	}
}

func newSeedCmd(logger *slog.Logger, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo accounts and listings, skipping rows that already exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := openDB(opts)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := postgres.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
				return err
			}

			result, err := newSeeder(db, opts.password).Seed(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("Seed completed",
				slog.Int("usersCreated", result.Users),
				slog.Int("propertiesCreated", result.Properties))

			return nil
		},
	}
	cmd.Flags().StringVar(&opts.password, "password", defaultSeedPassword, "password given to every seeded account")

	return cmd
}

// openDB connects to SQLite when --sqlite is set and to the configured PostgreSQL otherwise.
func openDB(opts *options) (*gorm.DB, func(), error) {
	if opts.sqlitePath != "" {
		db, err := sqlite.Open(opts.sqlitePath)
		if err != nil {
			return nil, nil, err
		}

		return db, closer(db), nil
	}

	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Postgres == nil {
		return nil, nil, errors.New("postgres configuration is required, or pass --sqlite")
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	postgres.Configure(db)

	return db, closer(db), nil
}

func closer(db *gorm.DB) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
