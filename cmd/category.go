package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/budgetflow/internal/core/common/validation"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the category taxonomy",
	Long:  `List, add and remove the categories entries of each kind may use.`,
}

var categoryListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List categories of a kind in display order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			kind, err := ledger.ParseKind(args[0])
			if err != nil {
				return err
			}
			writeCategories(cmd.OutOrStdout(), a.service.ListCategories(kind), func(label string) bool {
				return a.service.IsInUse(kind, label)
			})
			return nil
		})
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <kind> <label>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			kind, err := ledger.ParseKind(args[0])
			if err != nil {
				return err
			}
			if appErr := validation.ValidateLabel("label", args[1]); appErr != nil {
				return appErr
			}
			label, err := a.service.AddCategory(ctx, kind, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Added %s category %q", kind, label)))
			return nil
		})
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:   "remove <kind> <label>",
	Short: "Remove a category no entry uses",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			kind, err := ledger.ParseKind(args[0])
			if err != nil {
				return err
			}
			if err := a.service.RemoveCategory(ctx, kind, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Removed %s category %q", kind, args[1])))
			return nil
		})
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)
}
