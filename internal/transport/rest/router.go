package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/budgetflow/api"
	"github.com/frahmantamala/budgetflow/internal/budget"
	"github.com/frahmantamala/budgetflow/internal/transport/middleware"
	"github.com/frahmantamala/budgetflow/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// APIPrefix is where every ledger route is mounted.
const APIPrefix = "/api/v1"

type RouterDeps struct {
	AllowedOrigins string
	Health         *HealthHandler
	Budget         *budget.Handler
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) error {
	validator, err := middleware.NewRequestValidator(api.OpenAPI, deps.Logger, APIPrefix+"/import")
	if err != nil {
		return err
	}

	// Apply global middleware
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))

	// OpenAPI document and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route(APIPrefix, func(r chi.Router) {
		if deps.Health != nil {
			r.Get("/health", deps.Health.Health)
			r.Get("/ping", deps.Health.Ping)
		}

		r.Group(func(br chi.Router) {
			br.Use(validator.Middleware)
			deps.Budget.RegisterRoutes(br)
		})
	})

	return nil
}
