// Package config loads the InkBoard TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"InkBoard/internal/brush"
	"InkBoard/internal/capture"
	"InkBoard/internal/geom"
)

// Config is the top-level configuration.
type Config struct {
	GlobalOverlay  bool                    `toml:"global_overlay"`
	Verbose        bool                    `toml:"verbose"`
	BaseStreamline float64                 `toml:"base_streamline"`
	Straighten     Straighten              `toml:"straighten"`
	Bridge         Bridge                  `toml:"bridge"`
	Brushes        map[string]brush.Preset `toml:"brushes"`
}

// Straighten configures hold-to-straighten.
type Straighten struct {
	Enabled     bool    `toml:"enabled"`
	HoldDelayMS int     `toml:"hold_delay_ms"`
	AngleStep   float64 `toml:"angle_step"`
}

// Bridge configures the websocket command bridge.
type Bridge struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Advertise bool   `toml:"advertise"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GlobalOverlay:  true,
		BaseStreamline: 0.5,
		Straighten: Straighten{
			Enabled:     true,
			HoldDelayMS: 350,
			AngleStep:   15,
		},
		Bridge: Bridge{Addr: ":8888"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults.
func Parse(data string) (Config, error) {
	c := Default()
	if _, err := toml.Decode(data, &c); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	c.clamp()
	return c, nil
}

func (c *Config) clamp() {
	c.BaseStreamline = geom.Clamp(c.BaseStreamline, 0, 1)
	c.Straighten.HoldDelayMS = max(c.Straighten.HoldDelayMS, 1)
	c.Straighten.AngleStep = geom.Clamp(c.Straighten.AngleStep, 0, 180)
	if c.Bridge.Addr == "" {
		c.Bridge.Addr = ":8888"
	}
}

// Catalogue returns the configured brushes, or the defaults when none are
// configured.
func (c Config) Catalogue() brush.Catalogue {
	if len(c.Brushes) == 0 {
		return brush.DefaultCatalogue()
	}
	out := make(brush.Catalogue, len(c.Brushes))
	for k, v := range c.Brushes {
		out[k] = v
	}
	return out
}

// StraightenConfig returns the capture tolerances for the configured gesture.
func (c Config) StraightenConfig() capture.Straighten {
	s := capture.DefaultStraighten()
	s.Enabled = c.Straighten.Enabled
	s.HoldDelay = time.Duration(c.Straighten.HoldDelayMS) * time.Millisecond
	s.AngleStep = c.Straighten.AngleStep
	return s
}
