package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("seating", nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "fs", cfg.Store)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Empty(t, cfg.LevelsFile)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadEnvThenFlags(t *testing.T) {
	t.Setenv("SEATING_ADDR", ":9000")
	t.Setenv("SEATING_STORE", "SQLite")
	t.Setenv("SEATING_LOG_LEVEL", "debug")

	cfg, err := Load("seating", nil)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg, err = Load("seating", []string{"-addr", ":7000", "-store", "fs"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "fs", cfg.Store)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("seating", []string{"-store", "redis"})
	require.ErrorContains(t, err, "unknown store")

	_, err = Load("seating", []string{"-nope"})
	require.Error(t, err)
}

type envTestConfig struct {
	Port int `env:"SEATING_TEST_PORT" envDefault:"123"`
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SEATING_TEST_PORT", "not-an-int")
	err := ParseEnv(&cfg)
	require.ErrorContains(t, err, "parse env:")
}
