package main

import (
	"fmt"

	"github.com/NeuralTrust/toolhub/pkg/config"
	"github.com/NeuralTrust/toolhub/pkg/infra/database"
	infraLogger "github.com/NeuralTrust/toolhub/pkg/infra/logger"
	_ "github.com/NeuralTrust/toolhub/pkg/infra/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage registry schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, release, err := openMigrationDB(root)
				if err != nil {
					return err
				}
				defer release()
				return db.Migrate(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert the most recently applied migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, release, err := openMigrationDB(root)
				if err != nil {
					return err
				}
				defer release()
				id, err := database.NewMigrationsManager(db.DB).RollbackLast()
				if err != nil {
					return err
				}
				if id == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no migration to revert")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reverted %s\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered migrations in apply order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, id := range database.RegisteredMigrations() {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			},
		},
	)
	return cmd
}

// openMigrationDB connects to the registry database. release closes the
// connection and then flushes the migrate log file.
func openMigrationDB(root *rootOptions) (*database.DB, func(), error) {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(config.RoleMigrate); err != nil {
		return nil, nil, err
	}
	logger, closeLogs := infraLogger.NewLogger(config.RoleMigrate)
	db, err := database.NewDB(logger, &database.Config{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		closeLogs()
		return nil, nil, err
	}
	return db, func() {
		_ = db.Close()
		closeLogs()
	}, nil
}
