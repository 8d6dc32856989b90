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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if MUSTER_CONFIG is set
//  3. env (prefix MUSTER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MUSTER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: MUSTER_ADDR, MUSTER_QUEUE_SIZE, ...
	// Map env keys like MUSTER_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MUSTER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "muster_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TickIntervalMS <= 0:
		return fmt.Errorf("%w: tick_interval_ms must be positive", ErrInvalidConfig)
	case c.MatchThreshold <= 0 || c.MatchThreshold > 1:
		return fmt.Errorf("%w: match_threshold must be in (0, 1]", ErrInvalidConfig)
	case c.DistanceCap <= 0:
		return fmt.Errorf("%w: distance_cap must be positive", ErrInvalidConfig)
	case c.CooldownSeconds < 0:
		return fmt.Errorf("%w: cooldown_seconds must not be negative", ErrInvalidConfig)
	case c.DescriptorDim <= 0:
		return fmt.Errorf("%w: descriptor_dim must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.LateAfterMinutes < 0:
		return fmt.Errorf("%w: late_after_minutes must not be negative", ErrInvalidConfig)
	}
	return nil
}
