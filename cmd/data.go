package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/frahmantamala/budgetflow/internal/budget"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	"github.com/spf13/cobra"
)

var (
	summaryBreakdown bool
	exportOut        string
	resetConfirmed   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income, expense and wealth totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			out := cmd.OutOrStdout()
			symbol := a.service.Settings().CurrencySymbol
			writeSummary(out, a.service.Summary(), symbol)
			if !summaryBreakdown {
				return nil
			}
			for _, k := range ledger.Kinds() {
				totals := a.service.Breakdown(k)
				if len(totals) == 0 {
					continue
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, headerStyle.Render(title(k.Collection())))
				writeBreakdown(out, k, totals, symbol)
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger document to a file",
	Long:  `Write the whole ledger as a pretty-printed JSON document. Use --out - for stdout.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			out := exportOut
			if out == "" {
				out = a.service.Settings().ExportFileName
			}
			if out == "-" {
				return a.service.Export(ctx, cmd.OutOrStdout())
			}
			if err := exportToFile(ctx, a.service, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Exported ledger to "+out))
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the ledger with an exported document",
	Long:  `Replace the whole ledger with a previously exported document. Older documents with a single category list are upgraded. Use - to read stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			result, err := a.service.Import(ctx, r)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Imported %d entries", result.Entries)
			if result.Migrated {
				msg += " (upgraded from the legacy format)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(msg))
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every entry and restore the default categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.service.Reset(ctx, resetConfirmed); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("All data cleared"))
			return nil
		})
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme [dark|light]",
	Short: "Show or choose the display theme",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if len(args) == 0 {
				theme, err := a.service.Theme(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme)
				return nil
			}
			theme, err := budget.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := a.service.SetTheme(ctx, theme); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Theme set to "+string(theme)))
			return nil
		})
	},
}

// exportToFile writes next to path and renames, so a failed export never
// leaves a truncated file behind.
func exportToFile(ctx context.Context, service *budget.Service, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if err := service.Export(ctx, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func init() {
	summaryCmd.Flags().BoolVarP(&summaryBreakdown, "breakdown", "b", false, "also show totals per category")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (defaults to export.file_name, - for stdout)")
	resetCmd.Flags().BoolVarP(&resetConfirmed, "yes", "y", false, "confirm deleting all data")
}
