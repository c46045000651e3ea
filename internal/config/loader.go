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
//  2. file (YAML) if DDRANK_CONFIG is set
//  3. env (prefix DDRANK_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("DDRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, wrapLoad(err)
		}
	}

	// Environment variables: DDRANK_ROOT, DDRANK_WORKER_COUNT, ...
	// Map env keys like DDRANK_WORKER_COUNT -> worker_count (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("DDRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "ddrank_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, wrapLoad(err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, wrapLoad(err)
	}

	// Basic validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Root == "" {
		return wrapInvalid(fmt.Errorf("root must not be empty"))
	}
	if c.FinishDecay <= 1 {
		return wrapInvalid(fmt.Errorf("finish_decay must be greater than 1, got %v", c.FinishDecay))
	}
	if c.BestK < 0 {
		return wrapInvalid(fmt.Errorf("best_k must not be negative, got %d", c.BestK))
	}
	if c.WindowDays < 0 {
		return wrapInvalid(fmt.Errorf("window_days must not be negative, got %d", c.WindowDays))
	}
	for name, w := range c.LevelWeights {
		if w < 0 {
			return wrapInvalid(fmt.Errorf("level weight for %q must not be negative, got %v", name, w))
		}
	}
	if _, err := c.Weights(); err != nil {
		return err
	}
	return nil
}
