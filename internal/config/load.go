package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load resolves configuration from defaults, config files, environment and
// flags. Flags are parsed from args with fs; positional args remain in fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Defaults
	setDefaults(cfg)

	// 2. User config file
	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	// 3. Project config file (overrides user config)
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	// 4. Environment
	loadFromEnv(cfg)

	// 5. Flags
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, err
	}

	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.Theme = strings.ToLower(cfg.Theme)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadConfigFile decodes TOML from path over cfg. Unknown keys are an error.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func findUserConfigFile() string {
	if p := os.Getenv("LISTER_CONFIG"); p != "" {
		return expandPath(p)
	}
	var candidates []string
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "lister", "lister.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".lister", "lister.toml"))
	}
	return firstExisting(candidates)
}

func findProjectConfigFile() string {
	return firstExisting([]string{"lister.toml", ".lister.toml"})
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	str := map[string]*string{
		"LISTER_STORE":      &cfg.Store,
		"LISTER_DATA_FILE":  &cfg.DataFile,
		"LISTER_KEY":        &cfg.Key,
		"LISTER_DSN":        &cfg.DSN,
		"LISTER_THEME":      &cfg.Theme,
		"LISTER_LOG_LEVEL":  &cfg.LogLevel,
		"LISTER_LOG_FORMAT": &cfg.LogFormat,
		"LISTER_LOG_FILE":   &cfg.LogFile,
	}
	for name, dst := range str {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("LISTER_NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.NoColor = true
	}
	if v := os.Getenv("LISTER_GROUP"); v != "" {
		cfg.Group = boolFromString(v)
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// parseFlags binds flags over the current values, so unset flags keep
// whatever the earlier sources resolved.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.Store, "store", cfg.Store, "storage backend: file or mysql")
	fs.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "path of the JSON data file (file store)")
	fs.StringVar(&cfg.Key, "key", cfg.Key, "storage key holding the task collection")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "MySQL DSN (mysql store)")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme: classic, neon or mono")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group output by pending/done")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json or logfmt")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("parsing flags: %w", err)
	}
	return nil
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
