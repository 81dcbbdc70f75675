package budget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/core/events"
	"github.com/frahmantamala/budgetflow/internal/document"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	"github.com/frahmantamala/budgetflow/internal/storage"
)

// MaxImportSize caps how much of an import stream is read.
const MaxImportSize = 16 << 20

// LoadResult describes what Load found in the ledger slot.
type LoadResult struct {
	Empty     bool
	Corrupt   bool
	Migrated  bool
	Entries   int
	LoadError error
}

type ImportResult struct {
	Migrated bool           `json:"migrated"`
	Entries  int            `json:"entries"`
	Summary  ledger.Summary `json:"summary"`
}

// Service serializes access to one ledger. Every mutation runs against a
// clone which only replaces the live ledger once it has been persisted.
type Service struct {
	mu       sync.RWMutex
	ledger   *ledger.Ledger
	store    storage.SlotStore
	events   events.Publisher
	settings Settings
	opts     []ledger.Option
	logger   *slog.Logger
}

func NewService(store storage.SlotStore, publisher events.Publisher, settings Settings, logger *slog.Logger, opts ...ledger.Option) *Service {
	settings = settings.withDefaults()
	if !settings.StrictCategories {
		opts = append(opts, ledger.WithTrustedCategories())
	}
	return &Service{
		ledger:   ledger.New(opts...),
		store:    store,
		events:   publisher,
		settings: settings,
		opts:     opts,
		logger:   logger,
	}
}

func (s *Service) Settings() Settings {
	return s.settings
}

// Load replaces the live ledger with the stored snapshot. An empty slot keeps
// the default ledger. A snapshot that cannot be decoded is logged and left in
// place until the next successful save overwrites it. Legacy snapshots are
// upgraded and written back immediately.
func (s *Service) Load(ctx context.Context) (LoadResult, error) {
	data, err := s.get(ctx, s.settings.LedgerKey)
	if errors.Is(err, storage.ErrSlotEmpty) {
		s.logger.Info("no stored ledger, starting empty", "slot", s.settings.LedgerKey)
		return LoadResult{Empty: true}, nil
	}
	if err != nil {
		return LoadResult{}, internal.NewInternalError("failed to read ledger slot", err)
	}

	loaded, err := document.Deserialize(data, s.opts...)
	if err != nil {
		s.logger.Warn("stored ledger is unreadable, starting empty",
			"slot", s.settings.LedgerKey,
			"error", err)
		return LoadResult{Corrupt: true, LoadError: err}, nil
	}

	result := LoadResult{Migrated: document.IsLegacy(data), Entries: countEntries(loaded)}

	s.mu.Lock()
	s.ledger = loaded
	s.mu.Unlock()

	if result.Migrated {
		if err := s.persist(ctx, loaded); err != nil {
			s.logger.Warn("failed to write back migrated ledger", "error", err)
		} else {
			s.logger.Info("migrated legacy ledger", "slot", s.settings.LedgerKey)
		}
	}

	s.logger.Info("ledger loaded", "entries", result.Entries)
	return result, nil
}

func (s *Service) ListEntries(k ledger.Kind) []ledger.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Entries(k)
}

func (s *Service) GetEntry(k ledger.Kind, id int64) (ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Entry(k, id)
}

func (s *Service) CreateEntry(ctx context.Context, k ledger.Kind, f ledger.Fields) (ledger.Entry, error) {
	var created ledger.Entry
	summary, err := s.mutate(ctx, func(l *ledger.Ledger) error {
		var err error
		created, err = l.Create(k, f)
		return err
	})
	if err != nil {
		return ledger.Entry{}, err
	}

	s.logger.Info("entry created", "kind", k, "entry_id", created.ID, "category", created.Category)
	s.publishChanged(ctx, events.OpEntryCreated, k, created.ID, created.Category, summary)
	return created, nil
}

func (s *Service) UpdateEntry(ctx context.Context, k ledger.Kind, id int64, f ledger.Fields) (ledger.Entry, error) {
	var updated ledger.Entry
	summary, err := s.mutate(ctx, func(l *ledger.Ledger) error {
		var err error
		updated, err = l.Update(k, id, f)
		return err
	})
	if err != nil {
		return ledger.Entry{}, err
	}

	s.logger.Info("entry updated", "kind", k, "entry_id", id)
	s.publishChanged(ctx, events.OpEntryUpdated, k, id, updated.Category, summary)
	return updated, nil
}

func (s *Service) DeleteEntry(ctx context.Context, k ledger.Kind, id int64) error {
	summary, err := s.mutate(ctx, func(l *ledger.Ledger) error {
		return l.Delete(k, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("entry deleted", "kind", k, "entry_id", id)
	s.publishChanged(ctx, events.OpEntryDeleted, k, id, "", summary)
	return nil
}

// ListCategories returns k's taxonomy in display order.
func (s *Service) ListCategories(k ledger.Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Categories(k)
}

func (s *Service) IsInUse(k ledger.Kind, label string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.IsInUse(k, label)
}

func (s *Service) AddCategory(ctx context.Context, k ledger.Kind, label string) (string, error) {
	var added string
	summary, err := s.mutate(ctx, func(l *ledger.Ledger) error {
		var err error
		added, err = l.AddCategory(k, label)
		return err
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("category added", "kind", k, "category", added)
	s.publishChanged(ctx, events.OpCategoryAdded, k, 0, added, summary)
	return added, nil
}

func (s *Service) RemoveCategory(ctx context.Context, k ledger.Kind, label string) error {
	summary, err := s.mutate(ctx, func(l *ledger.Ledger) error {
		return l.RemoveCategory(k, label)
	})
	if err != nil {
		return err
	}

	s.logger.Info("category removed", "kind", k, "category", label)
	s.publishChanged(ctx, events.OpCategoryRemoved, k, 0, label, summary)
	return nil
}

func (s *Service) Summary() ledger.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Summary()
}

// FormattedSummary renders the totals with the configured currency symbol.
func (s *Service) FormattedSummary() ledger.FormattedSummary {
	return s.Summary().Formatted(s.settings.CurrencySymbol)
}

func (s *Service) Breakdown(k ledger.Kind) []ledger.CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Breakdown(k)
}

// Reset drops every entry and restores the default taxonomy. It refuses to
// run unless confirmed.
func (s *Service) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return internal.ErrResetNotConfirmed
	}

	summary, err := s.mutate(ctx, func(l *ledger.Ledger) error {
		l.Reset()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("ledger reset")
	s.publish(ctx, events.NewLedgerResetEvent(summary))
	s.publishChanged(ctx, events.OpReset, 0, 0, "", summary)
	return nil
}

// Export writes the pretty-printed document for the live ledger to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	doc := document.Serialize(s.ledger)
	s.mu.RUnlock()

	data, err := document.Marshal(doc, true)
	if err != nil {
		return internal.NewInternalError("failed to encode ledger", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Import replaces the live ledger with the document read from r. A document
// that fails to decode leaves both the live ledger and the slot untouched.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return ImportResult{}, internal.ErrCorruptDocument.WithCause(err)
	}
	if len(data) > MaxImportSize {
		return ImportResult{}, internal.ErrCorruptDocument.WithMessage("document exceeds %d bytes", MaxImportSize)
	}

	next, err := document.Deserialize(data, s.opts...)
	if err != nil {
		s.logger.Warn("import rejected", "error", err)
		return ImportResult{}, err
	}

	s.mu.Lock()
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return ImportResult{}, err
	}
	s.ledger = next
	summary := next.Summary()
	s.mu.Unlock()

	result := ImportResult{
		Migrated: document.IsLegacy(bytes.TrimSpace(data)),
		Entries:  countEntries(next),
		Summary:  summary,
	}

	s.logger.Info("ledger imported", "entries", result.Entries, "migrated", result.Migrated)
	s.publish(ctx, events.NewLedgerImportedEvent(result.Migrated, result.Entries, summary))
	s.publishChanged(ctx, events.OpImported, 0, 0, "", summary)
	return result, nil
}

// Theme returns the stored theme, or the configured default when none is
// stored or the stored value is not recognised.
func (s *Service) Theme(ctx context.Context) (Theme, error) {
	data, err := s.get(ctx, s.settings.ThemeKey)
	if errors.Is(err, storage.ErrSlotEmpty) {
		return s.settings.DefaultTheme, nil
	}
	if err != nil {
		return "", internal.NewInternalError("failed to read theme slot", err)
	}

	theme, err := ParseTheme(string(data))
	if err != nil {
		s.logger.Warn("ignoring stored theme", "value", string(data))
		return s.settings.DefaultTheme, nil
	}
	return theme, nil
}

func (s *Service) SetTheme(ctx context.Context, theme Theme) error {
	theme, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.settings.StorageTimeout)
	defer cancel()
	if err := s.store.Put(ctx, s.settings.ThemeKey, []byte(theme)); err != nil {
		return internal.NewInternalError("failed to save theme", err)
	}

	s.logger.Info("theme changed", "theme", theme)
	s.publish(ctx, events.NewThemeChangedEvent(string(theme)))
	return nil
}

// mutate applies fn to a clone of the live ledger, persists the clone and only
// then swaps it in. Any error leaves the live ledger and the slot as they were.
func (s *Service) mutate(ctx context.Context, fn func(*ledger.Ledger) error) (ledger.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ledger.Clone()
	if err := fn(next); err != nil {
		return ledger.Summary{}, err
	}
	if err := s.persist(ctx, next); err != nil {
		return ledger.Summary{}, err
	}
	s.ledger = next
	return next.Summary(), nil
}

func (s *Service) persist(ctx context.Context, l *ledger.Ledger) error {
	data, err := document.Marshal(document.Serialize(l), false)
	if err != nil {
		return internal.NewInternalError("failed to encode ledger", err)
	}

	ctx, cancel := internal.WithTimeout(ctx, s.settings.StorageTimeout)
	defer cancel()
	if err := s.store.Put(ctx, s.settings.LedgerKey, data); err != nil {
		s.logger.Error("failed to save ledger", "slot", s.settings.LedgerKey, "error", err)
		return internal.NewInternalError("failed to save ledger", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.settings.StorageTimeout)
	defer cancel()
	return s.store.Get(ctx, key)
}

func (s *Service) publishChanged(ctx context.Context, op string, k ledger.Kind, id int64, category string, summary ledger.Summary) {
	kind := ""
	if k.Valid() {
		kind = k.String()
	}
	s.publish(ctx, events.NewLedgerChangedEvent(op, kind, id, category, summary))
}

// publish delivers e synchronously. The change is already committed, so a
// failing subscriber is logged rather than reported to the caller.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSync(ctx, e); err != nil {
		s.logger.Warn("event subscriber failed", "event_type", e.EventType(), "error", err)
	}
}

func countEntries(l *ledger.Ledger) int {
	n := 0
	for _, k := range ledger.Kinds() {
		n += len(l.Entries(k))
	}
	return n
}
