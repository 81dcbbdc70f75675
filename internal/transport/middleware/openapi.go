package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
)

// RequestValidator checks requests against an OpenAPI document before they
// reach a handler. Requests for paths the document does not describe pass
// through untouched.
type RequestValidator struct {
	router      routers.Router
	skipBodyFor map[string]bool
	logger      *slog.Logger
}

// NewRequestValidator loads and validates the OpenAPI document in data.
// Bodies of requests to the paths in skipBody are not validated; those
// handlers report malformed input themselves.
func NewRequestValidator(data []byte, logger *slog.Logger, skipBody ...string) (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	skip := make(map[string]bool, len(skipBody))
	for _, p := range skipBody {
		skip[p] = true
	}

	return &RequestValidator{
		router:      router,
		skipBodyFor: skip,
		logger:      logger,
	}, nil
}

func (v *RequestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				ExcludeRequestBody: v.skipBodyFor[r.URL.Path],
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.logger.Debug("request failed openapi validation",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err)
			appErr := internal.NewValidationError("request does not match the API schema", internal.ErrCodeValidationFailed).
				WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{{
					Field:   "request",
					Message: err.Error(),
					Code:    string(internal.ErrCodeValidationFailed),
				}}})
			writeAppError(w, appErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, body)
}
