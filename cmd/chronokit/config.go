package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/yaml"
)

const defaultConfigName = "chronokit.yml"

// Config is the chronokit config.
type Config struct {
	// Layout is used to parse and print timestamps.
	Layout string `json:"layout" yaml:"layout"`
	// Location is an IANA zone name used to interpret timestamps.
	Location string `json:"location" yaml:"location"`
	// Format is output format, text or json.
	Format string `json:"format" yaml:"format"`
}

func (cfg *Config) setDefaults() {
	if cfg.Layout == "" {
		cfg.Layout = time.DateTime
	}
	if cfg.Location == "" {
		cfg.Location = "UTC"
	}
	if cfg.Format == "" {
		cfg.Format = formatText
	}
}

func (cfg Config) location() (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, errors.Wrapf(err, "load location %q", cfg.Location)
	}
	return loc, nil
}

func loadConfig(name string) (cfg Config, rerr error) {
	defer func() {
		if rerr != nil {
			return
		}
		// Environment variable has higher precedence.
		if layout := os.Getenv("CHRONOKIT_LAYOUT"); layout != "" {
			cfg.Layout = layout
		}
		cfg.setDefaults()
	}()

	if name == "" {
		name = defaultConfigName
		if _, err := os.Stat(name); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(filepath.Clean(name))
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %q", name)
	}
	return cfg, nil
}
