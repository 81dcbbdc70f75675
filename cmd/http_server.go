package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/budgetflow/internal/budget"
	"github.com/frahmantamala/budgetflow/internal/storage/postgres"
	"github.com/frahmantamala/budgetflow/internal/transport"
	"github.com/frahmantamala/budgetflow/internal/transport/rest"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer a.Close()

	router, err := setupRoutes(a)
	if err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	cfg := a.cfg.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server",
			"address", addr,
			"storage_driver", a.cfg.Storage.Driver,
			"docs", cfg.BaseURL+"/swagger/index.html")
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		a.logger.Info("received signal, shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	a.logger.Info("server stopped")
	return nil
}

func setupRoutes(a *app) (*chi.Mux, error) {
	var db *sqlx.DB
	if a.sqlDB != nil {
		db = sqlx.NewDb(a.sqlDB, postgres.Dialect(a.cfg.Storage.Driver))
	}

	router := chi.NewRouter()
	err := rest.RegisterAllRoutes(router, rest.RouterDeps{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Health:         rest.NewHealthHandler(a.store, a.cfg.Storage.Driver, db),
		Budget:         budget.NewHandler(transport.NewBaseHandler(a.logger), a.service),
		Logger:         a.logger,
	})
	if err != nil {
		return nil, err
	}
	return router, nil
}
