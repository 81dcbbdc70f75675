package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

type Config struct {
	AppEnv  string        `mapstructure:"app_env"`
	Server  ServerConfig  `mapstructure:"http_server"`
	Storage StorageConfig `mapstructure:"storage"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects where the ledger and theme slots live. Path is used by
// the file and sqlite drivers, Source by postgres.
type StorageConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timeout         time.Duration `mapstructure:"timeout"`
	LedgerKey       string        `mapstructure:"ledger_key"`
	ThemeKey        string        `mapstructure:"theme_key"`
}

type LedgerConfig struct {
	StrictCategories bool   `mapstructure:"strict_categories"`
	CurrencySymbol   string `mapstructure:"currency_symbol"`
}

type ThemeConfig struct {
	Default string `mapstructure:"default"`
}

type ExportConfig struct {
	FileName string `mapstructure:"file_name"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Theme.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("theme config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverFile, StorageDriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("path is required for the %s driver", c.Driver)
		}
	case StorageDriverPostgres:
		if c.Source == "" {
			return errors.New("source is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	if c.LedgerKey == "" || c.ThemeKey == "" {
		return errors.New("ledger_key and theme_key are required")
	}
	if c.LedgerKey == c.ThemeKey {
		return errors.New("ledger_key and theme_key must differ")
	}
	return nil
}

// IsSQL reports whether the driver keeps slots in a database.
func (c *StorageConfig) IsSQL() bool {
	return c.Driver == StorageDriverSQLite || c.Driver == StorageDriverPostgres
}

func (c *StorageConfig) GetDSN() string {
	if c.Driver == StorageDriverSQLite {
		return c.Path
	}
	return c.Source
}

func (c *ThemeConfig) Validate() error {
	switch c.Default {
	case "dark", "light":
		return nil
	}
	return fmt.Errorf("default must be dark or light, got %q", c.Default)
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format %q", c.Format)
	}
	return nil
}
