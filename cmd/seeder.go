package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	"github.com/spf13/cobra"
)

var clearData bool

type seedEntry struct {
	kind   ledger.Kind
	fields ledger.Fields
}

var sampleEntries = []seedEntry{
	{ledger.KindIncome, ledger.Fields{Label: "Acme Ltd", Category: "Salary", Amount: 3200}},
	{ledger.KindIncome, ledger.Fields{Label: "Etsy shop", Category: "Business", Amount: 240.5}},
	{ledger.KindIncome, ledger.Fields{Label: "ISA interest", Category: "Interest", Amount: 18.72}},
	{ledger.KindExpense, ledger.Fields{Label: "Rent", Category: "Housing", Amount: 1150}},
	{ledger.KindExpense, ledger.Fields{Label: "Weekly shop", Category: "Food", Amount: 86.4}},
	{ledger.KindExpense, ledger.Fields{Label: "Oyster top-up", Category: "Transportation", Amount: 45}},
	{ledger.KindExpense, ledger.Fields{Label: "Energy bill", Category: "Utilities", Amount: 112.3}},
	{ledger.KindAsset, ledger.Fields{Label: "Current account", Category: "Cash", Amount: 2400}},
	{ledger.KindAsset, ledger.Fields{Label: "Stocks and shares ISA", Category: "Investment", Amount: 12500}},
	{ledger.KindAsset, ledger.Fields{Label: "Flat", Category: "Property", Amount: 240000}},
	{ledger.KindLiability, ledger.Fields{Label: "Mortgage", Category: "Mortgage", Amount: 180000}},
	{ledger.KindLiability, ledger.Fields{Label: "Credit card", Category: "Credit Card", Amount: 650}},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the ledger with sample data",
	Long:  `Seed the ledger with sample data for development and testing purposes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if clearData {
				if err := a.service.Reset(ctx, true); err != nil {
					return fmt.Errorf("failed to clear ledger: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared existing data")
			}

			seeded, err := seedLedger(ctx, a, sampleEntries)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Seeded %d entries", seeded)))
			return nil
		})
	},
}

// seedLedger records entries, adding any category the taxonomy lacks first.
func seedLedger(ctx context.Context, a *app, entries []seedEntry) (int, error) {
	seeded := 0
	for _, e := range entries {
		_, err := a.service.CreateEntry(ctx, e.kind, e.fields)
		if errors.Is(err, internal.ErrUnknownCategory) {
			if _, err := a.service.AddCategory(ctx, e.kind, e.fields.Category); err != nil {
				return seeded, fmt.Errorf("failed to add %s category %s: %w", e.kind, e.fields.Category, err)
			}
			_, err = a.service.CreateEntry(ctx, e.kind, e.fields)
		}
		if err != nil {
			return seeded, fmt.Errorf("failed to seed %s %q: %w", e.kind, e.fields.Label, err)
		}
		seeded++
	}
	return seeded, nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
