// Package config holds runtime configuration for patch extraction.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config holds extraction parameters. Fields may be loaded from a JSON file
// and overridden by command-line flags.
type Config struct {
	// Patch geometry
	BasePatchPixels      int     `json:"base_patch_pixels"`
	DesiredMagnification float64 `json:"desired_magnification"`
	DefaultMagnification float64 `json:"default_magnification"`

	// Output
	OutputRoot     string `json:"output_root"`
	ImageExtension string `json:"image_extension"`

	// Strict makes a corrupt counter file fatal at startup instead of a
	// loud warning.
	Strict bool `json:"strict"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		BasePatchPixels:      224,
		DesiredMagnification: 40.0,
		DefaultMagnification: 40.0,
		OutputRoot:           "patches",
		ImageExtension:       "jpg",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.BasePatchPixels < 1 {
		c.BasePatchPixels = 224
	}
	if c.DesiredMagnification <= 0 {
		c.DesiredMagnification = 40.0
	}
	if c.DefaultMagnification <= 0 {
		c.DefaultMagnification = 40.0
	}
	if c.OutputRoot == "" {
		c.OutputRoot = "patches"
	}
	c.ImageExtension = strings.ToLower(strings.TrimPrefix(c.ImageExtension, "."))
	switch c.ImageExtension {
	case "jpg", "jpeg", "png":
	case "":
		c.ImageExtension = "jpg"
	default:
		return fmt.Errorf("unsupported image extension %q", c.ImageExtension)
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig().
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
