// Package config provides configuration loading and management for imgdegrade.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"imgdegrade/pkg/pipeline"
	"imgdegrade/pkg/raster"
)

// EnvConfigPath names the environment variable (or .env entry) holding the
// default config file path
const EnvConfigPath = "IMGDEGRADE_CONFIG"

// DefaultConfigPath is used when neither --config nor EnvConfigPath is set
const DefaultConfigPath = "imgdegrade.yaml"

// Config represents the application configuration loaded from YAML
type Config struct {
	// Pipeline parameters shared by every degradation
	Pipeline struct {
		// Seed drives the random choice of parameters per image
		Seed uint64 `yaml:"seed"`

		// NoiseSeed drives the noise models; 0 seeds from the clock
		NoiseSeed uint64 `yaml:"noiseSeed"`

		// OnDecodeFailure is "delete" or "keep"
		OnDecodeFailure string `yaml:"onDecodeFailure"`

		// JPEGQuality is used when an output file is written as JPEG
		JPEGQuality int `yaml:"jpegQuality"`

		// Manifest is an optional parquet file receiving one record per image
		Manifest string `yaml:"manifest"`
	} `yaml:"pipeline"`

	// Motion blur candidates
	Motion struct {
		ExposureTime float64   `yaml:"exposureTime"`
		Lengths      []float64 `yaml:"lengths"`
		Angles       []int     `yaml:"angles"`

		// A second segment is drawn when either list is set; set both to
		// empty lists for a single-segment path
		SecondLengths []float64 `yaml:"secondLengths"`
		SecondAngles  []int     `yaml:"secondAngles"`
	} `yaml:"motion"`

	// Additive Gaussian noise levels
	Gaussian struct {
		Sigmas []float64 `yaml:"sigmas"`
	} `yaml:"gaussian"`

	// Poisson-Gaussian sensor noise
	Sensor struct {
		Gains  []float64 `yaml:"gains"`
		Sigmas []float64 `yaml:"sigmas"`
	} `yaml:"sensor"`

	// JPEG recompression
	Compression struct {
		Qualities []int `yaml:"qualities"`
	} `yaml:"compression"`

	// Downscale and upscale
	Resolution struct {
		Factors []float64 `yaml:"factors"`
	} `yaml:"resolution"`

	// Output parameters
	Output struct {
		// Verbose switches logging to debug level
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Pipeline.Seed = pipeline.DefaultSeed
	cfg.Pipeline.NoiseSeed = 0
	cfg.Pipeline.OnDecodeFailure = pipeline.DeleteUnreadable.String()
	cfg.Pipeline.JPEGQuality = raster.DefaultJPEGQuality

	cfg.Motion.ExposureTime = 1.0
	cfg.Motion.Lengths = []float64{0, 5, 10, 15, 20}
	cfg.Motion.Angles = []int{0, 45, 90, 135, 180, 225, 270, 315}

	// Two-segment path with a still second half; empty lists give a single segment
	cfg.Motion.SecondLengths = []float64{0}
	cfg.Motion.SecondAngles = []int{0}

	cfg.Gaussian.Sigmas = []float64{5, 10, 15, 25}

	cfg.Sensor.Gains = []float64{0.5, 1, 2, 4}
	cfg.Sensor.Sigmas = []float64{1, 3, 5}

	cfg.Compression.Qualities = []int{10, 20, 30, 40, 50}

	cfg.Resolution.Factors = []float64{2, 3, 4}

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Lists present in the file replace the defaults wholesale
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks every section, so that a bad value is reported before any
// file is touched
func (c *Config) Validate() error {
	errs := []error{c.ValidatePipeline()}

	sections := []struct {
		name       string
		candidates pipeline.Candidates
	}{
		{"motion", c.MotionCandidates()},
		{"gaussian", c.GaussianCandidates()},
		{"sensor", c.SensorCandidates()},
		{"compression", c.CompressionCandidates()},
		{"resolution", c.ResolutionCandidates()},
	}
	for _, s := range sections {
		if err := s.candidates.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	return errors.Join(errs...)
}

// ValidatePipeline checks the pipeline section only. Commands use it together
// with the candidates they draw from, so sections they never read cannot
// block them.
func (c *Config) ValidatePipeline() error {
	var errs []error
	if _, err := pipeline.ParseDecodeFailurePolicy(c.Pipeline.OnDecodeFailure); err != nil {
		errs = append(errs, fmt.Errorf("pipeline.onDecodeFailure: %w", err))
	}
	if c.Pipeline.JPEGQuality < 0 || c.Pipeline.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("pipeline.jpegQuality: %d outside [0,100]", c.Pipeline.JPEGQuality))
	}
	return errors.Join(errs...)
}

// PipelineParams builds run parameters for the given directories
func (c *Config) PipelineParams(inputDir string, destinations []string) (*pipeline.Params, error) {
	policy, err := pipeline.ParseDecodeFailurePolicy(c.Pipeline.OnDecodeFailure)
	if err != nil {
		return nil, err
	}
	return &pipeline.Params{
		InputDir:        inputDir,
		Destinations:    destinations,
		Seed:            c.Pipeline.Seed,
		NoiseSeed:       c.Pipeline.NoiseSeed,
		OnDecodeFailure: policy,
		JPEGQuality:     c.Pipeline.JPEGQuality,
		ManifestPath:    c.Pipeline.Manifest,
	}, nil
}

func (c *Config) MotionCandidates() pipeline.MotionCandidates {
	return pipeline.MotionCandidates{
		Lengths:       c.Motion.Lengths,
		Angles:        c.Motion.Angles,
		SecondLengths: c.Motion.SecondLengths,
		SecondAngles:  c.Motion.SecondAngles,
		ExposureTime:  c.Motion.ExposureTime,
	}
}

func (c *Config) GaussianCandidates() pipeline.GaussianCandidates {
	return pipeline.GaussianCandidates{Sigmas: c.Gaussian.Sigmas}
}

func (c *Config) SensorCandidates() pipeline.SensorCandidates {
	return pipeline.SensorCandidates{Gains: c.Sensor.Gains, Sigmas: c.Sensor.Sigmas}
}

func (c *Config) CompressionCandidates() pipeline.CompressionCandidates {
	return pipeline.CompressionCandidates{Qualities: c.Compression.Qualities}
}

func (c *Config) ResolutionCandidates() pipeline.ResolutionCandidates {
	return pipeline.ResolutionCandidates{Factors: c.Resolution.Factors}
}
