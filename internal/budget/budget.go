// Package budget is the surface presentation layers use: it owns the live
// ledger, keeps it in sync with its persistence slot and announces changes on
// the event bus.
package budget

import (
	"strings"
	"time"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/document"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", internal.ErrInvalidTheme.WithMessage("theme must be dark or light, got %q", s)
}

// Settings are the service knobs taken from internal.Config.
type Settings struct {
	LedgerKey        string
	ThemeKey         string
	DefaultTheme     Theme
	StrictCategories bool
	CurrencySymbol   string
	ExportFileName   string
	StorageTimeout   time.Duration
}

const (
	DefaultLedgerKey      = "budgetFlowData"
	DefaultThemeKey       = "budgetFlowTheme"
	DefaultCurrencySymbol = "£"
)

// SettingsFromConfig maps the loaded configuration onto Settings, filling
// anything left blank with the built-in defaults.
func SettingsFromConfig(cfg *internal.Config) Settings {
	s := Settings{
		LedgerKey:        cfg.Storage.LedgerKey,
		ThemeKey:         cfg.Storage.ThemeKey,
		DefaultTheme:     Theme(cfg.Theme.Default),
		StrictCategories: cfg.Ledger.StrictCategories,
		CurrencySymbol:   cfg.Ledger.CurrencySymbol,
		ExportFileName:   cfg.Export.FileName,
		StorageTimeout:   cfg.Storage.Timeout,
	}
	return s.withDefaults()
}

func (s Settings) withDefaults() Settings {
	if s.LedgerKey == "" {
		s.LedgerKey = DefaultLedgerKey
	}
	if s.ThemeKey == "" {
		s.ThemeKey = DefaultThemeKey
	}
	if _, err := ParseTheme(string(s.DefaultTheme)); err != nil {
		s.DefaultTheme = ThemeLight
	}
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = DefaultCurrencySymbol
	}
	if s.ExportFileName == "" {
		s.ExportFileName = document.ExportFileName
	}
	return s
}
