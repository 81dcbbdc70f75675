package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/storage/postgres"
	"github.com/frahmantamala/budgetflow/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "run the embedded slot table migrations for the sqlite and postgres drivers",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := setup()
	if err != nil {
		return err
	}
	if !cfg.Storage.IsSQL() {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("nothing to migrate for the file driver"))
		return nil
	}

	db, err := openMigrationDB(cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, cfg.Storage.Driver, migrateRollback, logger.LoggerWrapper()); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	version, err := postgres.SchemaVersion(ctx, db, cfg.Storage.Driver)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("schema at version %d", version)))
	return nil
}

// openMigrationDB opens postgres through the pgx stdlib driver the way goose
// expects; sqlite goes through gorm so the file and its directory are created.
func openMigrationDB(cfg internal.StorageConfig) (*sql.DB, error) {
	if cfg.Driver == internal.StorageDriverPostgres {
		db, err := goose.OpenDBWithDriver("pgx", cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("goose: failed to open DB: %w", err)
		}
		return db, nil
	}

	gdb, err := postgres.Open(cfg)
	if err != nil {
		return nil, err
	}
	return gdb.DB()
}
