package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/transport/middleware"
	"github.com/frahmantamala/budgetflow/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testDocument = `
openapi: 3.0.3
info:
  title: test
  version: 1.0.0
paths:
  /api/v1/things:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
      responses:
        "201":
          description: created
  /api/v1/upload:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
      responses:
        "200":
          description: ok
`

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
})

func errorCode(w *httptest.ResponseRecorder) string {
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
	return env.Error.Code
}

var _ = Describe("RequestID", func() {
	It("should mint a trace id and expose it on the context", func() {
		var seen string
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.TraceIDFromContext(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).To(HaveLen(36))
		Expect(w.Header().Get(middleware.TraceHeader)).To(Equal(seen))
	})

	It("should reuse the caller's trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "trace-123")
		w := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(w, req)

		Expect(w.Header().Get(middleware.TraceHeader)).To(Equal("trace-123"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should turn a panic into an internal error envelope", func() {
		h := middleware.RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(errorCode(w)).To(Equal("INTERNAL_ERROR"))
	})
})

var _ = Describe("CORS", func() {
	It("should echo an allowed origin", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://app.local")
		w := httptest.NewRecorder()
		middleware.CORS("http://app.local, http://other.local")(ok).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://app.local"))
	})

	It("should not set headers for other origins", func() {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://evil.local")
		w := httptest.NewRecorder()
		middleware.CORS("http://app.local")(ok).ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should log the request and response without altering either", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewTextHandler(&buf, nil))

		var body string
		h := middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			body = string(b)
			w.WriteHeader(http.StatusCreated)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"name":"x"}`)))

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(body).To(Equal(`{"name":"x"}`))
		Expect(buf.String()).To(ContainSubstring("incoming request"))
		Expect(buf.String()).To(ContainSubstring("status_code=201"))
	})
})

var _ = Describe("RequestValidator", func() {
	var handler http.Handler

	BeforeEach(func() {
		v, err := middleware.NewRequestValidator([]byte(testDocument), logger.Discard(), "/api/v1/upload")
		Expect(err).NotTo(HaveOccurred())
		handler = v.Middleware(ok)
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	It("should pass valid requests through", func() {
		Expect(post("/api/v1/things", `{"name":"x"}`).Code).To(Equal(http.StatusOK))
	})

	It("should reject requests that break the schema", func() {
		w := post("/api/v1/things", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(w)).To(Equal("VALIDATION_FAILED"))
	})

	It("should skip body validation for excluded paths", func() {
		Expect(post("/api/v1/upload", `not json`).Code).To(Equal(http.StatusOK))
	})

	It("should let undocumented paths through", func() {
		Expect(post("/elsewhere", `garbage`).Code).To(Equal(http.StatusOK))
	})

	It("should refuse an invalid document", func() {
		_, err := middleware.NewRequestValidator([]byte("openapi: [broken"), logger.Discard())
		Expect(err).To(HaveOccurred())
	})
})
