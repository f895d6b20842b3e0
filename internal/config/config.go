package config

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds process settings. Environment variables provide defaults, flags win.
type Config struct {
	Addr       string `env:"SEATING_ADDR" envDefault:":8080"`
	LogLevel   string `env:"SEATING_LOG_LEVEL" envDefault:"info"`
	Store      string `env:"SEATING_STORE" envDefault:"fs"`
	DataDir    string `env:"SEATING_DATA_DIR" envDefault:"./data"`
	SQLitePath string `env:"SEATING_SQLITE_PATH" envDefault:"./data/seating.db"`
	LevelsFile string `env:"SEATING_LEVELS_FILE"`
	Locale     string `env:"SEATING_LOCALE" envDefault:"en-US"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, then applies command-line flags from args.
func Load(name string, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "progress store: fs|sqlite")
	fs.StringVar(&cfg.DataDir, "persist-path", cfg.DataDir, "directory for the fs store")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "database file for the sqlite store")
	fs.StringVar(&cfg.LevelsFile, "levels", cfg.LevelsFile, "level catalog YAML (default: built-in)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "default locale for messages")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case "fs", "sqlite":
	default:
		return cfg, fmt.Errorf("unknown store %q", cfg.Store)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
