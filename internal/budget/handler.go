package budget

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	"github.com/frahmantamala/budgetflow/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListEntries(k ledger.Kind) []ledger.Entry
	GetEntry(k ledger.Kind, id int64) (ledger.Entry, error)
	CreateEntry(ctx context.Context, k ledger.Kind, f ledger.Fields) (ledger.Entry, error)
	UpdateEntry(ctx context.Context, k ledger.Kind, id int64, f ledger.Fields) (ledger.Entry, error)
	DeleteEntry(ctx context.Context, k ledger.Kind, id int64) error
	ListCategories(k ledger.Kind) []string
	IsInUse(k ledger.Kind, label string) bool
	AddCategory(ctx context.Context, k ledger.Kind, label string) (string, error)
	RemoveCategory(ctx context.Context, k ledger.Kind, label string) error
	Summary() ledger.Summary
	FormattedSummary() ledger.FormattedSummary
	Breakdown(k ledger.Kind) []ledger.CategoryTotal
	Reset(ctx context.Context, confirmed bool) error
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (ImportResult, error)
	Theme(ctx context.Context) (Theme, error)
	SetTheme(ctx context.Context, theme Theme) error
	Settings() Settings
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// RegisterRoutes mounts every ledger route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/entries/{kind}", func(er chi.Router) {
		er.Get("/", h.ListEntries)
		er.Post("/", h.CreateEntry)
		er.Get("/{id}", h.GetEntry)
		er.Put("/{id}", h.UpdateEntry)
		er.Delete("/{id}", h.DeleteEntry)
	})

	r.Route("/categories/{kind}", func(cr chi.Router) {
		cr.Get("/", h.ListCategories)
		cr.Post("/", h.AddCategory)
		cr.Delete("/{label}", h.RemoveCategory)
		cr.Get("/{label}/usage", h.CategoryUsage)
	})

	r.Get("/summary", h.GetSummary)
	r.Get("/summary/{kind}/breakdown", h.GetBreakdown)

	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Post("/reset", h.Reset)

	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.SetTheme)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, ToEntriesResponse(kind, h.Service.ListEntries(kind)))
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	entry, err := h.Service.GetEntry(kind, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToEntryResponse(kind, entry))
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	var req EntryRequest
	if appErr := h.DecodeJSON(r, &req); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}
	if appErr := req.Validate(kind); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	entry, err := h.Service.CreateEntry(r.Context(), kind, req.Fields())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ToEntryResponse(kind, entry))
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req EntryRequest
	if appErr := h.DecodeJSON(r, &req); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}
	if appErr := req.Validate(kind); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	entry, err := h.Service.UpdateEntry(r.Context(), kind, id, req.Fields())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToEntryResponse(kind, entry))
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteEntry(r.Context(), kind, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Kind:       kind,
		Categories: h.Service.ListCategories(kind),
	})
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	var req CategoryRequest
	if appErr := h.DecodeJSON(r, &req); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}
	if appErr := req.Validate(); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	label, err := h.Service.AddCategory(r.Context(), kind, req.Label)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, CategoryResponse{Kind: kind, Label: label})
}

func (h *Handler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	label, ok := h.labelParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.RemoveCategory(r.Context(), kind, label); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CategoryUsage(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	label, ok := h.labelParam(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, CategoryUsageResponse{
		Kind:     kind,
		Category: label,
		InUse:    h.Service.IsInUse(kind, label),
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, SummaryResponse{
		Totals:    h.Service.Summary(),
		Formatted: h.Service.FormattedSummary(),
	})
}

func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, BreakdownResponse{
		Kind:       kind,
		Categories: h.Service.Breakdown(kind),
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), &buf); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.Service.Settings().ExportFileName))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Export: failed to write document", "error", err)
	}
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Import(r.Context(), r.Body)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if appErr := h.DecodeJSON(r, &req); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	if err := h.Service.Reset(r.Context(), req.Confirm); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SummaryResponse{
		Totals:    h.Service.Summary(),
		Formatted: h.Service.FormattedSummary(),
	})
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.Service.Theme(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if appErr := h.DecodeJSON(r, &req); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}
	if appErr := req.Validate(); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	if err := h.Service.SetTheme(r.Context(), Theme(req.Theme)); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ThemeResponse{Theme: Theme(req.Theme)})
}

func (h *Handler) kindParam(w http.ResponseWriter, r *http.Request) (ledger.Kind, bool) {
	kind, err := ledger.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return 0, false
	}
	return kind, true
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteAppError(w, r, internal.NewValidationFieldError("id", "id must be an integer", internal.ErrCodeValidationFailed))
		return 0, false
	}
	return id, true
}

// labelParam returns the label segment decoded exactly once. chi matches on
// RawPath when the request carries one and on the already decoded Path
// otherwise.
func (h *Handler) labelParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	label := chi.URLParam(r, "label")
	if r.URL.RawPath == "" {
		return label, true
	}
	label, err := url.PathUnescape(label)
	if err != nil {
		h.WriteAppError(w, r, internal.NewValidationFieldError("label", "label is not a valid path segment", internal.ErrCodeValidationFailed))
		return "", false
	}
	return label, true
}
