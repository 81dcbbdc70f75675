package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/budget"
	"github.com/frahmantamala/budgetflow/internal/core/events"
	"github.com/frahmantamala/budgetflow/internal/storage"
	"github.com/frahmantamala/budgetflow/internal/storage/postgres"
	"github.com/frahmantamala/budgetflow/pkg/logger"
)

// app is what every command that touches the ledger needs.
type app struct {
	cfg     *internal.Config
	store   storage.SlotStore
	sqlDB   *sql.DB
	bus     *events.EventBus
	service *budget.Service
	logger  *slog.Logger
}

// newApp opens the configured slot store, applies pending migrations for the
// sql drivers and loads the stored ledger.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := setup()
	if err != nil {
		return nil, err
	}
	lg := logger.LoggerWrapper()

	store, sqlDB, err := openSlotStore(ctx, cfg.Storage, lg)
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)
	subscribeEventLog(bus, lg)

	service := budget.NewService(store, bus, budget.SettingsFromConfig(cfg), lg)
	result, err := service.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if result.Corrupt {
		lg.Warn("stored ledger could not be read; it will be replaced on the next change",
			"error", result.LoadError)
	}

	return &app{
		cfg:     cfg,
		store:   store,
		sqlDB:   sqlDB,
		bus:     bus,
		service: service,
		logger:  lg,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}
}

// openSlotStore returns the store for cfg.Driver. For the sql drivers the
// underlying *sql.DB is returned as well.
func openSlotStore(ctx context.Context, cfg internal.StorageConfig, lg *slog.Logger) (storage.SlotStore, *sql.DB, error) {
	if !cfg.IsSQL() {
		store, err := storage.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return store, nil, nil
	}

	db, err := postgres.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, sqlDB, cfg.Driver, false, lg); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return postgres.NewSlotRepository(db), sqlDB, nil
}

func subscribeEventLog(bus *events.EventBus, lg *slog.Logger) {
	handler := func(ctx context.Context, event events.Event) error {
		lg.Debug("ledger event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	}
	for _, eventType := range []string{
		events.EventTypeLedgerChanged,
		events.EventTypeLedgerReset,
		events.EventTypeLedgerImported,
		events.EventTypeThemeChanged,
	} {
		bus.Subscribe(eventType, handler)
	}
}
