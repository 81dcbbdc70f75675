package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	MigrationsDir   = "migrations"
	MigrationsTable = "schema_migrations"
)

// Migrate applies every pending migration, or rolls back the latest one.
func Migrate(ctx context.Context, db *sql.DB, driver string, rollback bool, logger *slog.Logger) error {
	if err := configureGoose(driver, logger); err != nil {
		return err
	}
	if rollback {
		return goose.DownContext(ctx, db, MigrationsDir)
	}
	return goose.UpContext(ctx, db, MigrationsDir)
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	if err := configureGoose(driver, nil); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

func configureGoose(driver string, logger *slog.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(MigrationsTable)
	if logger != nil {
		goose.SetLogger(gooseLogger{logger})
	} else {
		goose.SetLogger(goose.NopLogger())
	}
	return goose.SetDialect(Dialect(driver))
}

// Dialect maps a storage driver to its goose dialect name.
func Dialect(driver string) string {
	if driver == internal.StorageDriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

type gooseLogger struct {
	l *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.l.Info(fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.l.Error(fmt.Sprintf(format, v...))
}
