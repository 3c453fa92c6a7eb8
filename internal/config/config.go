// Package config handles configuration loading and region defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/infratel/telemap/internal/region"
)

// Config represents the root configuration file structure.
type Config struct {
	// DefaultRegion names the region used when a caller does not pick one.
	DefaultRegion string           `yaml:"default_region,omitempty" json:"default_region,omitempty"`
	Regions       []*region.Region `yaml:"regions" json:"regions"`
}

// Load reads and parses the YAML configuration file from the specified
// path. Regions get their defaults filled; a file with no regions is an
// error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Regions) == 0 {
		return nil, fmt.Errorf("configuration %s defines no regions", path)
	}
	for _, r := range cfg.Regions {
		if r.Name == "" {
			return nil, fmt.Errorf("configuration %s has a region without a name", path)
		}
		r.ApplyDefaults()
	}
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = cfg.Regions[0].Name
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when no file is given:
// the India region with its dashboard defaults.
func Default() *Config {
	return &Config{
		DefaultRegion: "india",
		Regions:       []*region.Region{region.India()},
	}
}

// Resolver indexes the configured regions by name and alias.
func (c *Config) Resolver() region.Resolver {
	return region.NewResolver(c.Regions)
}
