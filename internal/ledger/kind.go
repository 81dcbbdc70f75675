package ledger

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/budgetflow/internal"
)

// Kind identifies one of the four entry collections. The set is closed: every
// switch over Kind panics on a value outside it.
type Kind int

const (
	KindIncome Kind = iota + 1
	KindExpense
	KindAsset
	KindLiability
)

// Kinds returns every kind in canonical order.
func Kinds() []Kind {
	return []Kind{KindIncome, KindExpense, KindAsset, KindLiability}
}

// ParseKind maps the wire name of a kind to its value.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return KindIncome, nil
	case "expense":
		return KindExpense, nil
	case "asset":
		return KindAsset, nil
	case "liability":
		return KindLiability, nil
	}
	return 0, internal.ErrInvalidKind.WithMessage("unknown kind %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindIncome:
		return "income"
	case KindExpense:
		return "expense"
	case KindAsset:
		return "asset"
	case KindLiability:
		return "liability"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the four declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindAsset, KindLiability:
		return true
	}
	return false
}

// Collection is the document field holding entries of this kind.
func (k Kind) Collection() string {
	switch k {
	case KindIncome:
		return "incomes"
	case KindExpense:
		return "expenses"
	case KindAsset:
		return "assets"
	case KindLiability:
		return "liabilities"
	}
	panic(k.invalid())
}

// LabelField is the name the label carries for this kind.
func (k Kind) LabelField() string {
	switch k {
	case KindIncome:
		return "source"
	case KindExpense:
		return "description"
	case KindAsset, KindLiability:
		return "name"
	}
	panic(k.invalid())
}

// CategoryField is "category" for cash-flow kinds and "type" for balance kinds.
func (k Kind) CategoryField() string {
	switch k {
	case KindIncome, KindExpense:
		return "category"
	case KindAsset, KindLiability:
		return "type"
	}
	panic(k.invalid())
}

// AmountField is "value" for assets and "amount" for everything else.
func (k Kind) AmountField() string {
	switch k {
	case KindAsset:
		return "value"
	case KindIncome, KindExpense, KindLiability:
		return "amount"
	}
	panic(k.invalid())
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, k.invalid()
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) invalid() error {
	return internal.ErrInvalidKind.WithMessage("invalid kind %d", int(k))
}
