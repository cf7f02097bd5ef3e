package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/raniellyferreira/respdecode/protocol"
	"github.com/rs/zerolog"
)

const (
	EnvMaxDepth       = "RESPDUMP_MAX_DEPTH"
	EnvMaxBulkLength  = "RESPDUMP_MAX_BULK_LENGTH"
	EnvMaxArrayLength = "RESPDUMP_MAX_ARRAY_LENGTH"
	EnvLogLevel       = "RESPDUMP_LOG_LEVEL"
)

// Config is the effective respdump configuration
type Config struct {
	Limits   protocol.Limits
	LogLevel zerolog.Level
}

type fileConfig struct {
	MaxDepth       int    `toml:"max_depth"`
	MaxBulkLength  int    `toml:"max_bulk_length"`
	MaxArrayLength int    `toml:"max_array_length"`
	LogLevel       string `toml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Limits:   protocol.DefaultLimits(),
		LogLevel: zerolog.InfoLevel,
	}
}

// loadConfig layers the TOML file (if any), the dotenv file (if present)
// and the process environment over the defaults.
func loadConfig(configPath, envPath string) (Config, error) {
	cfg := defaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load respdump config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load respdump config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("max_depth") {
		cfg.Limits.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("max_bulk_length") {
		cfg.Limits.MaxBulkLength = raw.MaxBulkLength
	}
	if meta.IsDefined("max_array_length") {
		cfg.Limits.MaxArrayLength = raw.MaxArrayLength
	}
	if meta.IsDefined("log_level") {
		lvl, ok := parseLevel(raw.LogLevel)
		if !ok {
			return fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvMaxDepth, &cfg.Limits.MaxDepth},
		{EnvMaxBulkLength, &cfg.Limits.MaxBulkLength},
		{EnvMaxArrayLength, &cfg.Limits.MaxArrayLength},
	}
	for _, v := range ints {
		raw := strings.TrimSpace(os.Getenv(v.key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", v.key, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv(EnvLogLevel); strings.TrimSpace(raw) != "" {
		lvl, ok := parseLevel(raw)
		if !ok {
			return fmt.Errorf("parse %s: unknown level %q", EnvLogLevel, raw)
		}
		cfg.LogLevel = lvl
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Limits.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", cfg.Limits.MaxDepth)
	}
	if cfg.Limits.MaxBulkLength <= 0 {
		return fmt.Errorf("max_bulk_length must be positive, got %d", cfg.Limits.MaxBulkLength)
	}
	if cfg.Limits.MaxArrayLength <= 0 {
		return fmt.Errorf("max_array_length must be positive, got %d", cfg.Limits.MaxArrayLength)
	}
	return nil
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
