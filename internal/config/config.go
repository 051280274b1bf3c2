// Package config handles wiretool configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/Faultbox/wireframe-uv/pkg/wireframe"
)

// Config holds all wiretool settings.
type Config struct {
	Wireframe WireframeConfig `yaml:"wireframe"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WireframeConfig holds labelling settings.
type WireframeConfig struct {
	AngleCutoffDegrees float32       `yaml:"angle_cutoff_degrees"`
	Channel            int           `yaml:"channel"` // UV slot, 0-7
	SolveTimeout       time.Duration `yaml:"solve_timeout"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Wireframe: WireframeConfig{
			AngleCutoffDegrees: wireframe.DefaultAngleCutoffDegrees,
			Channel:            wireframe.DefaultChannel,
			SolveTimeout:       wireframe.DefaultSolveTimeout,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     defaultCacheDir(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the wireframe section to generator options.
func (c *Config) Options() wireframe.Options {
	opts := wireframe.DefaultOptions()
	opts.AngleCutoffDegrees = c.Wireframe.AngleCutoffDegrees
	opts.Channel = c.Wireframe.Channel
	opts.SolveTimeout = c.Wireframe.SolveTimeout
	return opts
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return errors.Wrap(err, "wireframe")
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return errors.New("cache: enabled without a directory")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	return nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wireframe-uv")
	}
	return filepath.Join(dir, "wireframe-uv")
}
