package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/budgetflow/internal/storage"
	"github.com/jmoiron/sqlx"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

const schemaVersionQuery = `SELECT COALESCE(MAX(version_id), 0) FROM schema_migrations WHERE is_applied`

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// HealthHandler reports whether the slot store is reachable. When the store
// is SQL backed, db is set and the applied schema version is reported too.
type HealthHandler struct {
	store  storage.SlotStore
	driver string
	db     *sqlx.DB
}

func NewHealthHandler(store storage.SlotStore, driver string, db *sqlx.DB) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, db: db}
}

// Ping just says the service is up
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health checks the storage backend
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	entry := h.checkStorage(ctx)

	resp := HealthResponse{
		Status:     entry.Status,
		CheckedAt:  time.Now(),
		Components: map[string]CheckEntry{"storage": entry},
	}

	statusCode := http.StatusOK
	if entry.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, statusCode, resp)
}

func (h *HealthHandler) checkStorage(ctx context.Context) CheckEntry {
	start := time.Now()
	entry := CheckEntry{
		Status:  HealthHealthy,
		Details: map[string]any{"driver": h.driver},
	}

	if err := h.store.Ping(ctx); err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	} else if h.db != nil {
		var version int64
		if err := h.db.GetContext(ctx, &version, schemaVersionQuery); err != nil {
			entry.Status = HealthUnhealthy
			entry.Message = fmt.Sprintf("read schema version: %v", err)
		} else {
			entry.Details["schema_version"] = version
		}
	}

	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()
	return entry
}

func writeHealthJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
