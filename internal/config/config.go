// Package config handles export configuration loading and persistence.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/woozymasta/cadexport/internal/export"
	"github.com/woozymasta/cadexport/internal/geo"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file used when none is given.
const DefaultFile = "cadexport.yaml"

// Config represents the export configuration file structure.
type Config struct {
	// last used output root
	OutputDir   string `yaml:"output_dir" json:"output_dir"`
	CRS         string `yaml:"crs,omitempty" json:"crs,omitempty"`
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty"`
	SwapAxes    bool   `yaml:"swap_axes,omitempty" json:"swap_axes,omitempty"`
	OmitAttrs   bool   `yaml:"omit_attrs,omitempty" json:"omit_attrs,omitempty"`

	// keep files that already exist instead of overwriting them
	KeepExisting bool `yaml:"keep_existing,omitempty" json:"keep_existing,omitempty"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		OutputDir: ".",
		CRS:       geo.DefaultCRS,
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.CRS == "" {
		cfg.CRS = geo.DefaultCRS
	}

	if _, err := export.ParseCompression(cfg.Compression); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save overwrites the configuration file as a whole via temp file and rename.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}

// Options converts the configuration into encoder options.
func (c *Config) Options() export.Options {
	return export.Options{
		CRSName:   c.CRS,
		SwapAxes:  c.SwapAxes,
		OmitAttrs: c.OmitAttrs,
	}
}

// CompressionMode returns the parsed compression, falling back to none.
func (c *Config) CompressionMode() export.Compression {
	comp, err := export.ParseCompression(c.Compression)
	if err != nil {
		return export.CompressionNone
	}

	return comp
}
