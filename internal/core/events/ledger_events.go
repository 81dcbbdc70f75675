package events

import (
	"time"

	"github.com/frahmantamala/budgetflow/internal/ledger"
	"github.com/google/uuid"
)

const (
	EventTypeLedgerChanged  = "ledger.changed"
	EventTypeLedgerReset    = "ledger.reset"
	EventTypeLedgerImported = "ledger.imported"
	EventTypeThemeChanged   = "theme.changed"
)

// Operations carried by LedgerChangedEvent.
const (
	OpEntryCreated    = "entry.created"
	OpEntryUpdated    = "entry.updated"
	OpEntryDeleted    = "entry.deleted"
	OpCategoryAdded   = "category.added"
	OpCategoryRemoved = "category.removed"
	OpReset           = "reset"
	OpImported        = "imported"
)

// LedgerChangedEvent follows every successful ledger mutation and carries the
// recomputed totals so observers never have to query back.
type LedgerChangedEvent struct {
	BaseEvent
	Operation string         `json:"operation"`
	Kind      string         `json:"kind,omitempty"`
	EntryID   int64          `json:"entry_id,omitempty"`
	Category  string         `json:"category,omitempty"`
	Summary   ledger.Summary `json:"summary"`
}

func NewLedgerChangedEvent(operation, kind string, entryID int64, category string, summary ledger.Summary) *LedgerChangedEvent {
	return &LedgerChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLedgerChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"operation": operation,
				"kind":      kind,
				"entry_id":  entryID,
				"category":  category,
				"summary":   summary,
			},
		},
		Operation: operation,
		Kind:      kind,
		EntryID:   entryID,
		Category:  category,
		Summary:   summary,
	}
}

type LedgerResetEvent struct {
	BaseEvent
	Summary ledger.Summary `json:"summary"`
}

func NewLedgerResetEvent(summary ledger.Summary) *LedgerResetEvent {
	return &LedgerResetEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLedgerReset,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"summary": summary,
			},
		},
		Summary: summary,
	}
}

// LedgerImportedEvent reports a replaced ledger. Migrated is set when the
// imported document used the legacy flat category list.
type LedgerImportedEvent struct {
	BaseEvent
	Migrated bool           `json:"migrated"`
	Entries  int            `json:"entries"`
	Summary  ledger.Summary `json:"summary"`
}

func NewLedgerImportedEvent(migrated bool, entries int, summary ledger.Summary) *LedgerImportedEvent {
	return &LedgerImportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLedgerImported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"migrated": migrated,
				"entries":  entries,
				"summary":  summary,
			},
		},
		Migrated: migrated,
		Entries:  entries,
		Summary:  summary,
	}
}

type ThemeChangedEvent struct {
	BaseEvent
	Theme string `json:"theme"`
}

func NewThemeChangedEvent(theme string) *ThemeChangedEvent {
	return &ThemeChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeThemeChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"theme": theme,
			},
		},
		Theme: theme,
	}
}
