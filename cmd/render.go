package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/ledger"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	positive     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	negative     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// renderError shows the error code for ledger errors so scripts can match on it.
func renderError(err error) string {
	if appErr, ok := internal.IsAppError(err); ok {
		return errorStyle.Render(string(appErr.Code)) + " " + appErr.GetDetailedMessage()
	}
	return errorStyle.Render("error") + " " + err.Error()
}

func money(symbol string, v float64) string {
	s := symbol + ledger.FormatAmount(v)
	if v < 0 {
		return negative.Render(s)
	}
	return s
}

func writeEntries(out io.Writer, k ledger.Kind, entries []ledger.Entry, symbol string) {
	if len(entries) == 0 {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("No %s recorded.", k.Collection())))
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render(title(k.LabelField())),
		headerStyle.Render(title(k.CategoryField())),
		headerStyle.Render(title(k.AmountField())))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 13),
		strings.Repeat("-", 20),
		strings.Repeat("-", 16),
		strings.Repeat("-", 12))

	var sum float64
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Label, e.Category, money(symbol, e.Amount))
		sum += e.Amount
	}
	fmt.Fprintf(w, "\t\t%s\t%s\n", mutedStyle.Render("Total"), money(symbol, sum))
}

func writeCategories(out io.Writer, categories []string, inUse func(string) bool) {
	for _, c := range categories {
		if inUse(c) {
			fmt.Fprintf(out, "%s %s\n", c, mutedStyle.Render("(in use)"))
			continue
		}
		fmt.Fprintln(out, c)
	}
}

func writeSummary(out io.Writer, s ledger.Summary, symbol string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	rows := []struct {
		label     string
		value     float64
		highlight bool
	}{
		{"Total income", s.TotalIncome, false},
		{"Total expenses", s.TotalExpenses, false},
		{"Balance", s.Balance, true},
		{"Total assets", s.TotalAssets, false},
		{"Total liabilities", s.TotalLiabilities, false},
		{"Net wealth", s.NetWealth, true},
	}
	for _, row := range rows {
		label, value := row.label, money(symbol, row.value)
		if row.highlight {
			label = headerStyle.Render(label)
			if row.value >= 0 {
				value = positive.Render(symbol + ledger.FormatAmount(row.value))
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", label, value)
	}
}

func writeBreakdown(out io.Writer, k ledger.Kind, totals []ledger.CategoryTotal, symbol string) {
	if len(totals) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render(title(k.CategoryField())),
		headerStyle.Render("Entries"),
		headerStyle.Render("Total"))
	for _, t := range totals {
		fmt.Fprintf(w, "%s\t%d\t%s\n", t.Category, t.Count, money(symbol, t.Total))
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
