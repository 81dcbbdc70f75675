// Package document converts a ledger to and from its persisted JSON form and
// upgrades snapshots written with the legacy flat category list.
package document

import "github.com/frahmantamala/budgetflow/internal/ledger"

const ExportFileName = "budgetflow_data.json"

type Income struct {
	ID       int64   `json:"id"`
	Source   string  `json:"source"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type Expense struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
}

type Asset struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type Liability struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// Categories is the partitioned taxonomy, one label list per kind.
type Categories struct {
	Income    []string `json:"income"`
	Expense   []string `json:"expense"`
	Asset     []string `json:"asset"`
	Liability []string `json:"liability"`
}

// Document is the canonical persisted form of a ledger.
type Document struct {
	Incomes     []Income    `json:"incomes"`
	Expenses    []Expense   `json:"expenses"`
	Assets      []Asset     `json:"assets"`
	Liabilities []Liability `json:"liabilities"`
	Categories  Categories  `json:"categories"`
}

// Serialize captures every collection and the taxonomy in storage order.
func Serialize(l *ledger.Ledger) Document {
	return FromState(l.State())
}

// FromState builds a document from a ledger state.
func FromState(s ledger.State) Document {
	doc := Document{
		Incomes:     make([]Income, 0, len(s.Entries[ledger.KindIncome])),
		Expenses:    make([]Expense, 0, len(s.Entries[ledger.KindExpense])),
		Assets:      make([]Asset, 0, len(s.Entries[ledger.KindAsset])),
		Liabilities: make([]Liability, 0, len(s.Entries[ledger.KindLiability])),
		Categories: Categories{
			Income:    nonNil(s.Categories[ledger.KindIncome]),
			Expense:   nonNil(s.Categories[ledger.KindExpense]),
			Asset:     nonNil(s.Categories[ledger.KindAsset]),
			Liability: nonNil(s.Categories[ledger.KindLiability]),
		},
	}
	for _, e := range s.Entries[ledger.KindIncome] {
		doc.Incomes = append(doc.Incomes, Income{ID: e.ID, Source: e.Label, Category: e.Category, Amount: e.Amount})
	}
	for _, e := range s.Entries[ledger.KindExpense] {
		doc.Expenses = append(doc.Expenses, Expense{ID: e.ID, Description: e.Label, Category: e.Category, Amount: e.Amount})
	}
	for _, e := range s.Entries[ledger.KindAsset] {
		doc.Assets = append(doc.Assets, Asset{ID: e.ID, Name: e.Label, Type: e.Category, Value: e.Amount})
	}
	for _, e := range s.Entries[ledger.KindLiability] {
		doc.Liabilities = append(doc.Liabilities, Liability{ID: e.ID, Name: e.Label, Type: e.Category, Amount: e.Amount})
	}
	return doc
}

// State converts the document back to a ledger state.
func (d Document) State() ledger.State {
	return ledger.State{
		Entries: d.entries(),
		Categories: map[ledger.Kind][]string{
			ledger.KindIncome:    nonNil(d.Categories.Income),
			ledger.KindExpense:   nonNil(d.Categories.Expense),
			ledger.KindAsset:     nonNil(d.Categories.Asset),
			ledger.KindLiability: nonNil(d.Categories.Liability),
		},
	}
}

func (d Document) entries() map[ledger.Kind][]ledger.Entry {
	out := map[ledger.Kind][]ledger.Entry{
		ledger.KindIncome:    make([]ledger.Entry, 0, len(d.Incomes)),
		ledger.KindExpense:   make([]ledger.Entry, 0, len(d.Expenses)),
		ledger.KindAsset:     make([]ledger.Entry, 0, len(d.Assets)),
		ledger.KindLiability: make([]ledger.Entry, 0, len(d.Liabilities)),
	}
	for _, r := range d.Incomes {
		out[ledger.KindIncome] = append(out[ledger.KindIncome], ledger.Entry{ID: r.ID, Label: r.Source, Category: r.Category, Amount: r.Amount})
	}
	for _, r := range d.Expenses {
		out[ledger.KindExpense] = append(out[ledger.KindExpense], ledger.Entry{ID: r.ID, Label: r.Description, Category: r.Category, Amount: r.Amount})
	}
	for _, r := range d.Assets {
		out[ledger.KindAsset] = append(out[ledger.KindAsset], ledger.Entry{ID: r.ID, Label: r.Name, Category: r.Type, Amount: r.Value})
	}
	for _, r := range d.Liabilities {
		out[ledger.KindLiability] = append(out[ledger.KindLiability], ledger.Entry{ID: r.ID, Label: r.Name, Category: r.Type, Amount: r.Amount})
	}
	return out
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
