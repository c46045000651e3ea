// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"

	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/rank"
	"github.com/clbarnes/ddrank/internal/domain/scoring"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Root is the corpus root directory holding the level directories.
	Root string `koanf:"root"`

	// WorkerCount sets the number of parse workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory file job queue.
	QueueSize int `koanf:"queue_size"`

	// FinishDecay is the geometric decay factor of the default scoring curve.
	FinishDecay float64 `koanf:"finish_decay"`

	// BestK counts only a player's K highest awards. 0 sums every award.
	BestK int `koanf:"best_k"`

	// LevelWeights maps level directory names to their base points.
	// Missing levels fall back to the published defaults.
	LevelWeights map[string]float64 `koanf:"level_weights"`

	// WindowDays restricts ingestion to tournaments within this many days
	// before the as-of date. 0 means the full historical corpus.
	WindowDays int `koanf:"window_days"`

	// MetricsAddr exposes Prometheus metrics over HTTP when non-empty,
	// e.g. ":9091". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config populated with defaults.
func New() *Config {
	weights := make(map[string]float64, len(model.Levels()))
	for lvl, w := range scoring.DefaultLevelWeights() {
		weights[lvl.String()] = w
	}

	return &Config{
		LogLevel:     "info",
		Root:         ".",
		WorkerCount:  runtime.NumCPU(),
		QueueSize:    4096,
		FinishDecay:  scoring.DefaultFinishDecay,
		BestK:        rank.DefaultBestK,
		LevelWeights: weights,
		WindowDays:   0,
		MetricsAddr:  "",
	}
}

// Weights resolves the configured level weights into model.Level keys,
// filling any level the configuration left out with its default.
// Unknown level names in the map are reported via the returned error.
func (c *Config) Weights() (map[model.Level]float64, error) {
	out := scoring.DefaultLevelWeights()
	for name, w := range c.LevelWeights {
		lvl, err := model.ParseLevel(name)
		if err != nil {
			return nil, wrapInvalid(err)
		}
		out[lvl] = w
	}
	return out, nil
}
