// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowgate/willowgate/internal/config"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "town.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "Willowgate", cfg.Town.Name)
	assert.Equal(t, config.DefaultAddr, cfg.Listen.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10, cfg.Costs.RestBase)
	assert.Equal(t, 500, cfg.Costs.Blessing)
	assert.Equal(t, 100, cfg.Costs.Analysis)
	require.NoError(t, cfg.Validate())

	// Every facility ships display metadata out of the box.
	for _, id := range []string{"guild", "inn", "shop", "temple", "magic_guild"} {
		meta := cfg.Facility(id)
		assert.NotEmpty(t, meta.Name, id)
		assert.NotEmpty(t, meta.Welcome, id)
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_ExplicitMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
town:
  name: Greyhollow
listen:
  addr: "0.0.0.0:9000"
costs:
  rest_base: 25
facilities:
  inn:
    name: The Broken Wheel
    welcome: Mud tracks cross the floor.
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Greyhollow", cfg.Town.Name)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen.Addr)
	assert.Equal(t, 25, cfg.Costs.RestBase)
	// Untouched fields keep their defaults.
	assert.Equal(t, 500, cfg.Costs.Blessing)
	assert.Equal(t, "The Broken Wheel", cfg.Facility("inn").Name)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
listen:
  addr: "0.0.0.0:9000"
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen.addr", "", "")
	flags.String("log.format", "", "")
	require.NoError(t, flags.Parse([]string{
		"--listen.addr=127.0.0.1:7001",
		"--log.format=text",
	}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7001", cfg.Listen.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	path := writeConfig(t, `
log:
  format: xml
`)
	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad log format", func(c *config.Config) { c.Log.Format = "yaml" }},
		{"empty listen addr", func(c *config.Config) { c.Listen.Addr = "" }},
		{"zero rest base", func(c *config.Config) { c.Costs.RestBase = 0 }},
		{"negative blessing", func(c *config.Config) { c.Costs.Blessing = -1 }},
		{"zero analysis", func(c *config.Config) { c.Costs.Analysis = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFacility_Fallback(t *testing.T) {
	cfg := config.Default()

	meta := cfg.Facility("bathhouse")
	assert.Equal(t, "bathhouse", meta.Name)
	assert.NotEmpty(t, meta.Welcome)
}
