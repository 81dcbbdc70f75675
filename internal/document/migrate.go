package document

import "github.com/frahmantamala/budgetflow/internal/ledger"

// Migrate partitions a legacy flat category list into income and expense sets
// using the fixed legacy names. Unknown labels are dropped, and asset and
// liability types are reset to their defaults because the legacy format never
// stored them.
func Migrate(flat []string) map[ledger.Kind][]string {
	income := setOf(ledger.LegacyIncomeCategories)
	expense := setOf(ledger.LegacyExpenseCategories)

	out := map[ledger.Kind][]string{
		ledger.KindIncome:    {},
		ledger.KindExpense:   {},
		ledger.KindAsset:     ledger.DefaultCategories(ledger.KindAsset),
		ledger.KindLiability: ledger.DefaultCategories(ledger.KindLiability),
	}
	for _, label := range flat {
		switch {
		case income[label]:
			out[ledger.KindIncome] = append(out[ledger.KindIncome], label)
		case expense[label]:
			out[ledger.KindExpense] = append(out[ledger.KindExpense], label)
		}
	}
	return out
}

func setOf(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}
