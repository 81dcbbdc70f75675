// Package ledger is the in-memory data store behind BudgetFlow: four entry
// collections, the per-kind category taxonomy and the integrity rules that
// keep the two consistent.
package ledger

import (
	"strings"
	"time"

	"github.com/frahmantamala/budgetflow/internal"
)

type Option func(*Ledger)

// WithClock replaces the clock ids are derived from.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithTrustedCategories disables the taxonomy membership check on Create and
// Update; callers are then responsible for only offering valid categories.
func WithTrustedCategories() Option {
	return func(l *Ledger) {
		l.strict = false
	}
}

// Ledger owns the entry collections and the taxonomy. It is not safe for
// concurrent use.
type Ledger struct {
	incomes     []Entry
	expenses    []Entry
	assets      []Entry
	liabilities []Entry
	taxonomy    *Taxonomy

	lastID int64
	strict bool
	now    func() time.Time
}

// New returns an empty ledger with the default taxonomy.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		taxonomy: DefaultTaxonomy(),
		strict:   true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromState rebuilds a ledger from a decoded snapshot. Ids colliding inside
// one collection are reassigned so the uniqueness invariant holds again.
func FromState(s State, opts ...Option) *Ledger {
	l := New(opts...)
	l.taxonomy = NewTaxonomy(s.Categories)

	for _, k := range Kinds() {
		for _, e := range s.Entries[k] {
			if e.ID > l.lastID {
				l.lastID = e.ID
			}
		}
	}

	for _, k := range Kinds() {
		src := s.Entries[k]
		dst := make([]Entry, 0, len(src))
		seen := make(map[int64]struct{}, len(src))
		for _, e := range src {
			if _, dup := seen[e.ID]; dup {
				e.ID = l.nextID()
			}
			seen[e.ID] = struct{}{}
			dst = append(dst, e)
		}
		*l.collection(k) = dst
	}
	return l
}

// Clone returns a deep copy sharing no mutable state with l.
func (l *Ledger) Clone() *Ledger {
	cp := *l
	cp.incomes = cloneEntries(l.incomes)
	cp.expenses = cloneEntries(l.expenses)
	cp.assets = cloneEntries(l.assets)
	cp.liabilities = cloneEntries(l.liabilities)
	cp.taxonomy = l.taxonomy.clone()
	return &cp
}

// Reset drops every entry and restores the default taxonomy.
func (l *Ledger) Reset() {
	l.incomes = nil
	l.expenses = nil
	l.assets = nil
	l.liabilities = nil
	l.taxonomy = DefaultTaxonomy()
}

// Entries returns a copy of k's collection in insertion order.
func (l *Ledger) Entries(k Kind) []Entry {
	return cloneEntries(*l.collection(k))
}

// Entry looks up id in k's collection.
func (l *Ledger) Entry(k Kind, id int64) (Entry, error) {
	entries := *l.collection(k)
	i := indexOf(entries, id)
	if i < 0 {
		return Entry{}, notFound(k, id)
	}
	return entries[i], nil
}

// Create appends a new entry with a fresh id.
func (l *Ledger) Create(k Kind, f Fields) (Entry, error) {
	if err := l.validate(k, f); err != nil {
		return Entry{}, err
	}
	e := f.entry(l.nextID())
	c := l.collection(k)
	*c = append(*c, e)
	return e, nil
}

// Update replaces the entry stored under id, keeping the id.
func (l *Ledger) Update(k Kind, id int64, f Fields) (Entry, error) {
	entries := *l.collection(k)
	i := indexOf(entries, id)
	if i < 0 {
		return Entry{}, notFound(k, id)
	}
	if err := l.validate(k, f); err != nil {
		return Entry{}, err
	}
	entries[i] = f.entry(id)
	return entries[i], nil
}

// Delete removes the entry stored under id.
func (l *Ledger) Delete(k Kind, id int64) error {
	c := l.collection(k)
	i := indexOf(*c, id)
	if i < 0 {
		return notFound(k, id)
	}
	out := make([]Entry, 0, len(*c)-1)
	out = append(out, (*c)[:i]...)
	*c = append(out, (*c)[i+1:]...)
	return nil
}

// IsInUse reports whether any entry of k references category.
func (l *Ledger) IsInUse(k Kind, category string) bool {
	for _, e := range *l.collection(k) {
		if e.Category == category {
			return true
		}
	}
	return false
}

// Categories returns k's labels sorted for display.
func (l *Ledger) Categories(k Kind) []string {
	l.collection(k)
	return l.taxonomy.List(k)
}

// HasCategory reports whether label is currently allowed for k.
func (l *Ledger) HasCategory(k Kind, label string) bool {
	l.collection(k)
	return l.taxonomy.Has(k, label)
}

// AddCategory inserts a trimmed label into k's set.
func (l *Ledger) AddCategory(k Kind, label string) (string, error) {
	l.collection(k)
	label = strings.TrimSpace(label)
	if label == "" {
		return "", internal.ErrInvalidLabel
	}
	if l.taxonomy.Has(k, label) {
		return "", internal.ErrDuplicateCategory.WithMessage("%s category %q already exists", k, label)
	}
	l.taxonomy.add(k, label)
	return label, nil
}

// RemoveCategory deletes label from k's set unless an entry still uses it.
func (l *Ledger) RemoveCategory(k Kind, label string) error {
	l.collection(k)
	label = strings.TrimSpace(label)
	if label == "" {
		return internal.ErrInvalidLabel
	}
	if l.IsInUse(k, label) {
		return internal.ErrCategoryInUse.WithMessage("%s category %q is used by existing entries", k, label)
	}
	if !l.taxonomy.remove(k, label) {
		return internal.ErrCategoryNotFound.WithMessage("%s category %q not found", k, label)
	}
	return nil
}

// State returns a deep copy of the ledger contents with the taxonomy in
// storage order. Two ledgers are structurally equal iff their states are.
func (l *Ledger) State() State {
	s := State{
		Entries:    make(map[Kind][]Entry, 4),
		Categories: make(map[Kind][]string, 4),
	}
	for _, k := range Kinds() {
		s.Entries[k] = cloneEntries(*l.collection(k))
		s.Categories[k] = l.taxonomy.Raw(k)
	}
	return s
}

// Summary recomputes the aggregate totals.
func (l *Ledger) Summary() Summary {
	return Summary{
		TotalIncome:      total(l.incomes),
		TotalExpenses:    total(l.expenses),
		Balance:          total(l.incomes) - total(l.expenses),
		TotalAssets:      total(l.assets),
		TotalLiabilities: total(l.liabilities),
		NetWealth:        total(l.assets) - total(l.liabilities),
	}
}

// Breakdown totals k's entries per category.
func (l *Ledger) Breakdown(k Kind) []CategoryTotal {
	return breakdown(*l.collection(k))
}

func (l *Ledger) validate(k Kind, f Fields) error {
	l.collection(k)
	if strings.TrimSpace(f.Label) == "" {
		return internal.ErrInvalidLabel.WithMessage("%s must not be empty", k.LabelField())
	}
	if l.strict && !l.taxonomy.Has(k, f.Category) {
		return internal.ErrUnknownCategory.WithMessage("%s %q is not a known %s %s", k.CategoryField(), f.Category, k, k.CategoryField())
	}
	return nil
}

// nextID derives ids from the millisecond clock but never hands out the same
// or a smaller value twice.
func (l *Ledger) nextID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Ledger) collection(k Kind) *[]Entry {
	switch k {
	case KindIncome:
		return &l.incomes
	case KindExpense:
		return &l.expenses
	case KindAsset:
		return &l.assets
	case KindLiability:
		return &l.liabilities
	}
	panic(k.invalid())
}

func notFound(k Kind, id int64) error {
	return internal.ErrEntryNotFound.WithMessage("%s entry %d not found", k, id)
}

// State is the plain-data form of a ledger used for serialization.
type State struct {
	Entries    map[Kind][]Entry
	Categories map[Kind][]string
}
