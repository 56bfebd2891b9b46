// Package config holds the editor and tool settings persisted as YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Pricing holds the default per-unit rates
type Pricing struct {
	AreaRate   float64 `yaml:"areaRate"`
	LengthRate float64 `yaml:"lengthRate"`
	Currency   string  `yaml:"currency"`
}

// Editor holds interaction tuning values
type Editor struct {
	HistoryCap int `yaml:"historyCap"`
	// PointEpsilon is the minimum distance between consecutive drawn points
	PointEpsilon float64 `yaml:"pointEpsilon"`
	// PlaceDuration and RevertDuration are animation lengths in seconds
	PlaceDuration  float64 `yaml:"placeDuration"`
	RevertDuration float64 `yaml:"revertDuration"`
	// CollisionTolerance shrinks footprints before the overlap test
	CollisionTolerance float64 `yaml:"collisionTolerance"`
	HandleRadius       float64 `yaml:"handleRadius"`
}

// Geometry holds builder parameters
type Geometry struct {
	FenceModuleLength float64 `yaml:"fenceModuleLength"`
	FloorThickness    float64 `yaml:"floorThickness"`
}

// Config is the complete configuration
type Config struct {
	Pricing  Pricing  `yaml:"pricing"`
	Editor   Editor   `yaml:"editor"`
	Geometry Geometry `yaml:"geometry"`
	// Catalog is the path of the product catalog YAML
	Catalog string `yaml:"catalog"`
	// AssetDir resolves relative asset URLs
	AssetDir string `yaml:"assetDir"`
	Listen   string `yaml:"listen"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Pricing: Pricing{AreaRate: 35, LengthRate: 45, Currency: "EUR"},
		Editor: Editor{
			HistoryCap:         30,
			PointEpsilon:       0.1,
			PlaceDuration:      0.35,
			RevertDuration:     0.25,
			CollisionTolerance: 0.01,
			HandleRadius:       0.12,
		},
		Geometry: Geometry{FenceModuleLength: 2.0, FloorThickness: 0.05},
		Catalog:  "catalog.yaml",
		AssetDir: "assets",
		Listen:   ":8080",
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults; values absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory if needed
func (c Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve makes a relative path relative to the directory of the config file
func Resolve(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}
