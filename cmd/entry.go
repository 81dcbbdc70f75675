package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/budget"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage ledger entries",
	Long:  `Record, list, update and delete incomes, expenses, assets and liabilities.`,
}

var entryListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List entries of a kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			kind, err := ledger.ParseKind(args[0])
			if err != nil {
				return err
			}
			writeEntries(cmd.OutOrStdout(), kind, a.service.ListEntries(kind), a.service.Settings().CurrencySymbol)
			return nil
		})
	},
}

var entryAddCmd = &cobra.Command{
	Use:   "add <kind> <label> <category> <amount>",
	Short: "Record a new entry",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			kind, fields, err := parseEntryArgs(args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			entry, err := a.service.CreateEntry(ctx, kind, fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Recorded %s %d", kind, entry.ID)))
			return nil
		})
	},
}

var entryUpdateCmd = &cobra.Command{
	Use:   "update <kind> <id> <label> <category> <amount>",
	Short: "Replace an entry's fields, keeping its id",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			kind, fields, err := parseEntryArgs(args[0], args[2], args[3], args[4])
			if err != nil {
				return err
			}
			if _, err := a.service.UpdateEntry(ctx, kind, id, fields); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Updated %s %d", kind, id)))
			return nil
		})
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Remove an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			kind, err := ledger.ParseKind(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := a.service.DeleteEntry(ctx, kind, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Deleted %s %d", kind, id)))
			return nil
		})
	},
}

// parseEntryArgs runs the same checks as the HTTP handler before the ledger
// sees the fields.
func parseEntryArgs(rawKind, label, category, rawAmount string) (ledger.Kind, ledger.Fields, error) {
	kind, err := ledger.ParseKind(rawKind)
	if err != nil {
		return 0, ledger.Fields{}, err
	}

	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return 0, ledger.Fields{}, internal.NewValidationFieldError(kind.AmountField(),
			fmt.Sprintf("%s must be a number, got %q", kind.AmountField(), rawAmount),
			internal.ErrCodeValidationFailed)
	}

	req := budget.EntryRequest{Label: label, Category: category, Amount: &amount}
	if appErr := req.Validate(kind); appErr != nil {
		return 0, ledger.Fields{}, appErr
	}
	return kind, req.Fields(), nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, internal.NewValidationFieldError("id", fmt.Sprintf("id must be an integer, got %q", raw), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// withApp builds the app for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func init() {
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryUpdateCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}
