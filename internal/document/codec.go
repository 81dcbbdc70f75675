package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/ledger"
)

// Marshal encodes doc as JSON; pretty output uses two-space indentation.
func Marshal(doc Document, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// wireDocument defers decoding of the taxonomy until its shape is known.
type wireDocument struct {
	Incomes     []Income        `json:"incomes"`
	Expenses    []Expense       `json:"expenses"`
	Assets      []Asset         `json:"assets"`
	Liabilities []Liability     `json:"liabilities"`
	Categories  json.RawMessage `json:"categories"`
}

// Decode parses data into a ledger state, migrating a legacy flat category
// list when one is found. It fails with ErrCorruptDocument on anything that
// is not a JSON object with the expected field types.
func Decode(data []byte) (ledger.State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ledger.State{}, internal.ErrCorruptDocument.WithMessage("document must be a JSON object")
	}

	var wire wireDocument
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return ledger.State{}, internal.ErrCorruptDocument.WithCause(err)
	}

	categories, err := decodeCategories(wire.Categories)
	if err != nil {
		return ledger.State{}, err
	}

	doc := Document{
		Incomes:     wire.Incomes,
		Expenses:    wire.Expenses,
		Assets:      wire.Assets,
		Liabilities: wire.Liabilities,
	}
	return ledger.State{Entries: doc.entries(), Categories: categories}, nil
}

// Deserialize decodes data into a new ledger. The caller's existing ledger is
// never touched, so a failed import cannot leave partial state behind.
func Deserialize(data []byte, opts ...ledger.Option) (*ledger.Ledger, error) {
	state, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return ledger.FromState(state, opts...), nil
}

// IsLegacy reports whether data stores its categories as a flat list.
func IsLegacy(data []byte) bool {
	var probe struct {
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return shapeOf(probe.Categories) == shapeFlat
}

type categoriesShape int

const (
	shapeMissing categoriesShape = iota
	shapeFlat
	shapePartitioned
	shapeInvalid
)

func shapeOf(raw json.RawMessage) categoriesShape {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return shapeMissing
	}
	switch raw[0] {
	case '[':
		return shapeFlat
	case '{':
		return shapePartitioned
	}
	return shapeInvalid
}

// decodeCategories returns the kind→labels mapping. Only the exact lowercase
// kind names are read; any other key is ignored. Kinds absent from the result
// fall back to their defaults when the ledger is built.
func decodeCategories(raw json.RawMessage) (map[ledger.Kind][]string, error) {
	switch shapeOf(raw) {
	case shapeMissing:
		return map[ledger.Kind][]string{}, nil
	case shapeFlat:
		var flat []string
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, internal.ErrCorruptDocument.WithCause(fmt.Errorf("legacy categories: %w", err))
		}
		return Migrate(flat), nil
	case shapePartitioned:
		var byName map[string][]string
		if err := json.Unmarshal(raw, &byName); err != nil {
			return nil, internal.ErrCorruptDocument.WithCause(fmt.Errorf("categories: %w", err))
		}
		out := make(map[ledger.Kind][]string, len(byName))
		for name, labels := range byName {
			k, err := ledger.ParseKind(name)
			if err != nil || k.String() != name {
				continue
			}
			out[k] = labels
		}
		return out, nil
	}
	return nil, internal.ErrCorruptDocument.WithMessage("categories must be a list or an object")
}
