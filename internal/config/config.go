// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file ($LISTER_CONFIG, the OS config dir's lister/lister.toml, or ~/.lister/lister.toml)
// 3. Project config file (lister.toml or .lister.toml in the working directory)
// 4. Environment variables (LISTER_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Makepad-fr/lister/internal/store"
	"github.com/Makepad-fr/lister/internal/store/jsonstore"
	"github.com/Makepad-fr/lister/internal/store/mysqlstore"
	"github.com/Makepad-fr/lister/internal/tasklist"
	"github.com/Makepad-fr/lister/internal/ui"
)

// Defaults.
const (
	DefaultStore     = store.KindFile
	DefaultDataFile  = jsonstore.DefaultFileName
	DefaultKey       = tasklist.DefaultKey
	DefaultTheme     = "classic"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config is the resolved runtime configuration.
type Config struct {
	Store    string `toml:"store"`
	DataFile string `toml:"data_file"`
	Key      string `toml:"storage_key"`
	DSN      string `toml:"mysql_dsn"`

	Theme   string `toml:"theme"`
	NoColor bool   `toml:"no_color"`
	Group   bool   `toml:"group"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`
}

func setDefaults(cfg *Config) {
	cfg.Store = DefaultStore
	cfg.DataFile = DefaultDataFile
	cfg.Key = DefaultKey
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// StoreOptions maps the config onto the store backend options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{Kind: c.Store, DataFile: c.DataFile, DSN: c.DSN}
}

// Validate rejects unknown enum values and unusable DSNs.
func (c *Config) Validate() error {
	switch c.Store {
	case store.KindFile:
		if strings.TrimSpace(c.DataFile) == "" {
			return fmt.Errorf("data_file is empty")
		}
	case store.KindMySQL:
		if c.DSN == "" {
			return fmt.Errorf("store %q needs mysql_dsn (or LISTER_DSN)", c.Store)
		}
		if _, err := mysqlstore.ParseDSN(c.DSN); err != nil {
			return fmt.Errorf("mysql_dsn: %w", err)
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, store.KindFile, store.KindMySQL)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("storage_key is empty")
	}
	if !slices.Contains(ui.Themes, strings.ToLower(c.Theme)) {
		return fmt.Errorf("unknown theme %q (want one of %s)", c.Theme, strings.Join(ui.Themes, ", "))
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}
