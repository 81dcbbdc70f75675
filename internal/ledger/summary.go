package ledger

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Summary holds the derived totals. Values keep full float precision; only
// the formatted view is rounded.
type Summary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	Balance          float64 `json:"balance"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	NetWealth        float64 `json:"net_wealth"`
}

// FormattedSummary is Summary rendered for display.
type FormattedSummary struct {
	TotalIncome      string `json:"total_income"`
	TotalExpenses    string `json:"total_expenses"`
	Balance          string `json:"balance"`
	TotalAssets      string `json:"total_assets"`
	TotalLiabilities string `json:"total_liabilities"`
	NetWealth        string `json:"net_wealth"`
}

// Formatted renders every total with symbol prefixed, e.g. "£1,234.50".
func (s Summary) Formatted(symbol string) FormattedSummary {
	f := func(v float64) string { return symbol + FormatAmount(v) }
	return FormattedSummary{
		TotalIncome:      f(s.TotalIncome),
		TotalExpenses:    f(s.TotalExpenses),
		Balance:          f(s.Balance),
		TotalAssets:      f(s.TotalAssets),
		TotalLiabilities: f(s.TotalLiabilities),
		NetWealth:        f(s.NetWealth),
	}
}

// FormatAmount renders v with two fixed decimals and en-GB digit grouping.
func FormatAmount(v float64) string {
	p := message.NewPrinter(language.BritishEnglish)
	return p.Sprint(number.Decimal(v, number.Scale(2)))
}

// CategoryTotal is the sum of one category's entries.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

func total(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}

func breakdown(entries []Entry) []CategoryTotal {
	byCategory := make(map[string]*CategoryTotal)
	names := make([]string, 0)
	for _, e := range entries {
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
			names = append(names, e.Category)
		}
		ct.Total += e.Amount
		ct.Count++
	}

	collate.New(language.English).SortStrings(names)
	out := make([]CategoryTotal, 0, len(names))
	for _, name := range names {
		out = append(out, *byCategory[name])
	}
	return out
}
