package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/budget"
	"github.com/frahmantamala/budgetflow/internal/storage"
	"github.com/frahmantamala/budgetflow/internal/storage/postgres"
	"github.com/frahmantamala/budgetflow/internal/transport"
	"github.com/frahmantamala/budgetflow/internal/transport/middleware"
	"github.com/frahmantamala/budgetflow/internal/transport/rest"
	"github.com/frahmantamala/budgetflow/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type errorEnvelope struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

var _ = Describe("Router", func() {
	var router *chi.Mux

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	errorCode := func(w *httptest.ResponseRecorder) string {
		var env errorEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return env.Error.Code
	}

	BeforeEach(func() {
		store, err := storage.NewFileStore(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		lg := logger.Discard()
		service := budget.NewService(store, nil, budget.Settings{StrictCategories: true}, lg)
		_, err = service.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		router = chi.NewRouter()
		Expect(rest.RegisterAllRoutes(router, rest.RouterDeps{
			AllowedOrigins: "*",
			Health:         rest.NewHealthHandler(store, internal.StorageDriverFile, nil),
			Budget:         budget.NewHandler(transport.NewBaseHandler(lg), service),
			Logger:         lg,
		})).To(Succeed())
	})

	It("should answer ping and health", func() {
		w := do(http.MethodGet, "/api/v1/ping", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/api/v1/health", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp rest.HealthResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components).To(HaveKey("storage"))
		Expect(resp.Components["storage"].Details).To(HaveKeyWithValue("driver", "file"))
	})

	It("should serve the embedded OpenAPI document", func() {
		w := do(http.MethodGet, "/openapi.yml", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("BudgetFlow API"))
	})

	It("should create an entry and tag the response with a trace id", func() {
		w := do(http.MethodPost, "/api/v1/entries/income", `{"label":"Acme","category":"Salary","amount":2500}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())

		w = do(http.MethodGet, "/api/v1/summary", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"total_income":2500`))
	})

	It("should reject bodies that do not match the schema", func() {
		w := do(http.MethodPost, "/api/v1/entries/income", `{"label":"Acme","category":"Salary","amount":"lots"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(w)).To(Equal("VALIDATION_FAILED"))
	})

	It("should reject a non-numeric entry id", func() {
		w := do(http.MethodGet, "/api/v1/entries/income/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(w)).To(Equal("VALIDATION_FAILED"))
	})

	It("should report unknown kinds from the handler", func() {
		w := do(http.MethodGet, "/api/v1/entries/savings", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(w)).To(Equal("INVALID_KIND"))
	})

	It("should leave import bodies to the import handler", func() {
		w := do(http.MethodPost, "/api/v1/import", `not json`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(w)).To(Equal("CORRUPT_DOCUMENT"))
	})

	It("should answer CORS preflight requests", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/entries/income", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	})
})

var _ = Describe("HealthHandler", func() {
	It("should report the schema version of a SQL store", func() {
		cfg := internal.StorageConfig{
			Driver: internal.StorageDriverSQLite,
			Path:   filepath.Join(GinkgoT().TempDir(), "budgetflow.db"),
		}
		db, err := postgres.Open(cfg)
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlDB.Close)

		Expect(postgres.Migrate(context.Background(), sqlDB, cfg.Driver, false, nil)).To(Succeed())

		handler := rest.NewHealthHandler(postgres.NewSlotRepository(db), cfg.Driver, sqlx.NewDb(sqlDB, "sqlite3"))
		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp rest.HealthResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Components["storage"].Details).To(HaveKeyWithValue("schema_version", BeNumerically("==", 1)))
	})

	It("should report an unreachable store as unavailable", func() {
		dir := GinkgoT().TempDir()
		store, err := storage.NewFileStore(filepath.Join(dir, "slots"))
		Expect(err).NotTo(HaveOccurred())
		Expect(os.RemoveAll(store.Dir())).To(Succeed())

		handler := rest.NewHealthHandler(store, internal.StorageDriverFile, nil)
		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})
