package config

import (
	"flag"
	"time"
)

// Flags holds command-line overrides. Zero or negative values mean "not
// set" and leave the loaded value alone.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	Cutoff     float64
	Channel    int
	Timeout    time.Duration
	Cache      bool
	NoCache    bool
	CacheDir   string
}

// RegisterFlags adds the shared configuration flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	fs.Float64Var(&f.Cutoff, "cutoff", -1, "Angle cutoff in degrees [0, 90]")
	fs.IntVar(&f.Channel, "channel", -1, "UV channel receiving the labels [0, 7]")
	fs.DurationVar(&f.Timeout, "timeout", 0, "Label solve timeout per region")
	fs.BoolVar(&f.Cache, "cache", false, "Enable the result cache")
	fs.BoolVar(&f.NoCache, "no-cache", false, "Disable the result cache")
	fs.StringVar(&f.CacheDir, "cache-dir", "", "Result cache directory")
	return f
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Cutoff >= 0 {
		cfg.Wireframe.AngleCutoffDegrees = float32(f.Cutoff)
	}
	if f.Channel >= 0 {
		cfg.Wireframe.Channel = f.Channel
	}
	if f.Timeout > 0 {
		cfg.Wireframe.SolveTimeout = f.Timeout
	}
	if f.Cache {
		cfg.Cache.Enabled = true
	}
	if f.NoCache {
		cfg.Cache.Enabled = false
	}
	if f.CacheDir != "" {
		cfg.Cache.Dir = f.CacheDir
	}
}
