package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ORESTAT_CONFIG is set
//  3. env (prefix ORESTAT_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ORESTAT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ORESTAT_ADDR, ORESTAT_SAMPLE_LIMIT, ...
	// Map env keys like ORESTAT_SAMPLE_LIMIT -> sample_limit (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ORESTAT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "orestat_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SampleLimit < 1:
		return fmt.Errorf("%w: sample_limit must be positive", ErrInvalidConfig)
	case c.MaxUploadBytes < 1:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.MaxSessions < 1:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	for _, r := range []Reserve{c.CompositeReserve, c.BlockReserve} {
		if r.RecoveryPct < 0 || r.RecoveryPct > 100 {
			return fmt.Errorf("%w: recovery_pct must be within [0,100]", ErrInvalidConfig)
		}
	}
	return nil
}
