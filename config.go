package variogram

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-facing option surface. It mirrors Options and
// FitOptions with defaults suitable for a first look at a dataset.
type Config struct {
	Variogram struct {
		// MaxLag of 0 derives half the bounding-box diagonal.
		MaxLag    float64 `yaml:"maxlag"`
		NumBins   int     `yaml:"numbins"`
		Estimator string  `yaml:"estimator"`

		// Direction switches to a directional variogram when non-empty.
		Direction    []float64 `yaml:"direction"`
		ToleranceDeg float64   `yaml:"toleranceDeg"`

		Workers      int  `yaml:"workers"`
		SpatialIndex bool `yaml:"spatialIndex"`
	} `yaml:"variogram"`

	Fit struct {
		Shape   string  `yaml:"shape"`
		Weights string  `yaml:"weights"`
		MaxIter int     `yaml:"maxIter"`
		Tol     float64 `yaml:"tolerance"`
	} `yaml:"fit"`
}

// DefaultConfig returns the defaults: Matheron over DefaultNumBins bins,
// omnidirectional, multi-shape fit weighted by pair count.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Variogram.NumBins = DefaultNumBins
	cfg.Variogram.Estimator = string(Matheron)
	cfg.Variogram.ToleranceDeg = DefaultTolerance
	cfg.Fit.Shape = string(ShapeAny)
	cfg.Fit.Weights = string(WeightCount)
	cfg.Fit.MaxIter = DefaultMaxIter
	return cfg
}

// LoadConfig loads a YAML config file over the defaults. A missing file is
// not an error; the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the configuration as YAML.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// EstimateOptions converts the config to estimator options.
func (c *Config) EstimateOptions() Options {
	opts := Options{
		MaxLag:       c.Variogram.MaxLag,
		NumBins:      c.Variogram.NumBins,
		Estimator:    EstimatorType(c.Variogram.Estimator),
		Workers:      c.Variogram.Workers,
		SpatialIndex: c.Variogram.SpatialIndex,
	}
	if len(c.Variogram.Direction) > 0 {
		opts.Direction = Location(c.Variogram.Direction)
		opts.ToleranceDeg = c.Variogram.ToleranceDeg
	}
	return opts
}

// FitFromConfig converts the config to fitter options.
func (c *Config) FitFromConfig() FitOptions {
	return FitOptions{
		Shape:   ModelType(c.Fit.Shape),
		Weights: WeightPolicy(c.Fit.Weights),
		MaxIter: c.Fit.MaxIter,
		Tol:     c.Fit.Tol,
	}
}
