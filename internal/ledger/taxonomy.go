package ledger

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	LegacyIncomeCategories = []string{
		"Salary",
		"Freelance",
		"Investment",
		"Rental",
		"Business",
	}

	LegacyExpenseCategories = []string{
		"Housing",
		"Food",
		"Transportation",
		"Utilities",
		"Entertainment",
		"Healthcare",
		"Education",
	}

	DefaultAssetTypes = []string{
		"Cash",
		"Savings",
		"Investment",
		"Property",
		"Vehicle",
		"Other",
	}

	DefaultLiabilityTypes = []string{
		"Mortgage",
		"Loan",
		"Credit Card",
		"Student Loan",
		"Other",
	}
)

// DefaultCategories returns a fresh copy of the starter labels for k.
func DefaultCategories(k Kind) []string {
	switch k {
	case KindIncome:
		return clone(LegacyIncomeCategories)
	case KindExpense:
		return clone(LegacyExpenseCategories)
	case KindAsset:
		return clone(DefaultAssetTypes)
	case KindLiability:
		return clone(DefaultLiabilityTypes)
	}
	panic(k.invalid())
}

// Taxonomy holds the allowed labels per kind in insertion order.
type Taxonomy struct {
	labels map[Kind][]string
}

// DefaultTaxonomy returns the starter taxonomy used by a fresh ledger.
func DefaultTaxonomy() *Taxonomy {
	t := &Taxonomy{labels: make(map[Kind][]string, 4)}
	for _, k := range Kinds() {
		t.labels[k] = DefaultCategories(k)
	}
	return t
}

// NewTaxonomy builds a taxonomy from a kind→labels mapping. Kinds missing from
// the mapping get their defaults; duplicate and blank labels are dropped.
func NewTaxonomy(m map[Kind][]string) *Taxonomy {
	t := &Taxonomy{labels: make(map[Kind][]string, 4)}
	for _, k := range Kinds() {
		labels, ok := m[k]
		if !ok {
			t.labels[k] = DefaultCategories(k)
			continue
		}
		t.labels[k] = dedupe(labels)
	}
	return t
}

// List returns the labels of k sorted for display.
func (t *Taxonomy) List(k Kind) []string {
	out := clone(t.labels[k])
	sortLabels(out)
	return out
}

// Raw returns the labels of k in storage order.
func (t *Taxonomy) Raw(k Kind) []string {
	return clone(t.labels[k])
}

// Has reports exact membership of label in k's set.
func (t *Taxonomy) Has(k Kind, label string) bool {
	for _, l := range t.labels[k] {
		if l == label {
			return true
		}
	}
	return false
}

func (t *Taxonomy) add(k Kind, label string) {
	t.labels[k] = append(t.labels[k], label)
}

func (t *Taxonomy) remove(k Kind, label string) bool {
	labels := t.labels[k]
	for i, l := range labels {
		if l == label {
			out := make([]string, 0, len(labels)-1)
			out = append(out, labels[:i]...)
			t.labels[k] = append(out, labels[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Taxonomy) clone() *Taxonomy {
	cp := &Taxonomy{labels: make(map[Kind][]string, len(t.labels))}
	for k, labels := range t.labels {
		cp.labels[k] = clone(labels)
	}
	return cp
}

func sortLabels(labels []string) {
	collate.New(language.English).SortStrings(labels)
}

func dedupe(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
