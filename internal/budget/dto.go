package budget

import (
	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/core/common/validation"
	"github.com/frahmantamala/budgetflow/internal/ledger"
)

// EntryRequest is the body of POST and PUT on /entries/{kind}.
type EntryRequest struct {
	Label    string   `json:"label"`
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
}

// Validate names fields the way the kind calls them, e.g. "source" and
// "category" for incomes or "name" and "type" for assets.
func (r EntryRequest) Validate(k ledger.Kind) *internal.AppError {
	validator := validation.NewValidator()
	validator.Field(k.LabelField(), r.Label).Required()
	validator.Field(k.CategoryField(), r.Category).Required()
	validator.Field(k.AmountField(), r.Amount).Required().Finite()
	return validator.Validate()
}

func (r EntryRequest) Fields() ledger.Fields {
	f := ledger.Fields{Label: r.Label, Category: r.Category}
	if r.Amount != nil {
		f.Amount = *r.Amount
	}
	return f
}

type EntryResponse struct {
	ID       int64       `json:"id"`
	Kind     ledger.Kind `json:"kind"`
	Label    string      `json:"label"`
	Category string      `json:"category"`
	Amount   float64     `json:"amount"`
}

func ToEntryResponse(k ledger.Kind, e ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:       e.ID,
		Kind:     k,
		Label:    e.Label,
		Category: e.Category,
		Amount:   e.Amount,
	}
}

type EntriesResponse struct {
	Kind    ledger.Kind     `json:"kind"`
	Entries []EntryResponse `json:"entries"`
	Total   float64         `json:"total"`
}

func ToEntriesResponse(k ledger.Kind, entries []ledger.Entry) EntriesResponse {
	resp := EntriesResponse{Kind: k, Entries: make([]EntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, ToEntryResponse(k, e))
		resp.Total += e.Amount
	}
	return resp
}

type CategoryRequest struct {
	Label string `json:"label"`
}

func (r CategoryRequest) Validate() *internal.AppError {
	return validation.ValidateLabel("label", r.Label)
}

type CategoryResponse struct {
	Kind  ledger.Kind `json:"kind"`
	Label string      `json:"label"`
}

type CategoriesResponse struct {
	Kind       ledger.Kind `json:"kind"`
	Categories []string    `json:"categories"`
}

type CategoryUsageResponse struct {
	Kind     ledger.Kind `json:"kind"`
	Category string      `json:"category"`
	InUse    bool        `json:"in_use"`
}

type SummaryResponse struct {
	Totals    ledger.Summary          `json:"totals"`
	Formatted ledger.FormattedSummary `json:"formatted"`
}

type BreakdownResponse struct {
	Kind       ledger.Kind            `json:"kind"`
	Categories []ledger.CategoryTotal `json:"categories"`
}

type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

func (r ThemeRequest) Validate() *internal.AppError {
	return validation.ValidateTheme(r.Theme)
}

type ThemeResponse struct {
	Theme Theme `json:"theme"`
}
