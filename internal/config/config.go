// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

// Package config loads town configuration from an optional YAML file with
// command-line flag overrides. A missing file is not an error: every field
// has a working default so the town can always open.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/willowgate/willowgate/internal/xdg"
)

// FacilityMeta is the per-facility display metadata consumed by front ends.
// The facility core works without it.
type FacilityMeta struct {
	Name    string `koanf:"name"`
	Icon    string `koanf:"icon"`
	Welcome string `koanf:"welcome"`
}

// Config is the full town configuration.
type Config struct {
	Town struct {
		Name string `koanf:"name"`
	} `koanf:"town"`
	Listen struct {
		Addr        string `koanf:"addr"`
		MetricsAddr string `koanf:"metrics_addr"`
	} `koanf:"listen"`
	Log struct {
		Format string `koanf:"format"`
	} `koanf:"log"`
	Costs struct {
		RestBase int `koanf:"rest_base"`
		Blessing int `koanf:"blessing"`
		Analysis int `koanf:"analysis"`
	} `koanf:"costs"`
	Catalogs struct {
		ShopScript  string `koanf:"shop_script"`
		ShelfScript string `koanf:"shelf_script"`
	} `koanf:"catalogs"`
	Facilities map[string]FacilityMeta `koanf:"facilities"`
}

// Default values for optional configuration.
const (
	DefaultAddr        = "127.0.0.1:7777"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultRestBase    = 10
	DefaultBlessing    = 500
	DefaultAnalysis    = 100
)

// Default returns the configuration the town runs with when no file and no
// flags are given.
func Default() Config {
	var cfg Config
	cfg.Town.Name = "Willowgate"
	cfg.Listen.Addr = DefaultAddr
	cfg.Listen.MetricsAddr = DefaultMetricsAddr
	cfg.Log.Format = DefaultLogFormat
	cfg.Costs.RestBase = DefaultRestBase
	cfg.Costs.Blessing = DefaultBlessing
	cfg.Costs.Analysis = DefaultAnalysis
	cfg.Facilities = map[string]FacilityMeta{
		"guild":       {Name: "Adventurers' Guild", Icon: "shield", Welcome: "The registrar looks up from the ledger."},
		"inn":         {Name: "The Gilded Rest", Icon: "bed", Welcome: "Warm light spills from the hearth."},
		"shop":        {Name: "Boltwright's Emporium", Icon: "scales", Welcome: "Shelves sag under weapons and wares."},
		"temple":      {Name: "Temple of the Dawn", Icon: "sun", Welcome: "Incense hangs in the still air."},
		"magic_guild": {Name: "The Arcanum", Icon: "book", Welcome: "Dust motes drift between the stacks."},
	}
	return cfg
}

// DefaultPath returns the default config file location under the XDG config
// directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), "town.yaml")
}

// Load builds the configuration: defaults, then the YAML file (explicit path
// or the default location, skipped when absent), then flag overrides. flags
// may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.With("path", path).Wrapf(err, "load config file")
		}
	} else if explicit {
		// An explicitly named file must exist.
		return Config{}, oops.With("path", path).Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Wrapf(err, "load flag overrides")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Wrapf(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.With("format", c.Log.Format).
			Errorf("log format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if c.Listen.Addr == "" {
		return oops.Errorf("listen addr is required")
	}
	if c.Costs.RestBase < 1 {
		return oops.Errorf("rest base cost must be positive")
	}
	if c.Costs.Blessing < 1 {
		return oops.Errorf("blessing fee must be positive")
	}
	if c.Costs.Analysis < 1 {
		return oops.Errorf("analysis fee must be positive")
	}
	return nil
}

// Facility returns the display metadata for a facility ID, falling back to
// a generic entry so a missing config section never blocks a visit.
func (c *Config) Facility(id string) FacilityMeta {
	if meta, ok := c.Facilities[id]; ok {
		if meta.Name == "" {
			meta.Name = id
		}
		return meta
	}
	return FacilityMeta{Name: id, Welcome: "You step inside."}
}
