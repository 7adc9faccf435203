package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical reload defaults file.
const DefaultConfigPath = "config/reload.defaults.json"

// TuningConfig holds the reload engine and playback parameters read from a
// JSON or YAML file, optionally overridden from the environment. Every field
// is optional; the Get* methods supply the default for a field left unset.
type TuningConfig struct {
	// Engine params
	ProximityThreshold *float64 `json:"proximity_threshold,omitempty" yaml:"proximity_threshold,omitempty" env:"CONTACT_PROXIMITY_THRESHOLD" validate:"omitempty,gte=0"`
	SpatialIndex       *string  `json:"spatial_index,omitempty" yaml:"spatial_index,omitempty" env:"CONTACT_SPATIAL_INDEX" validate:"omitempty,oneof=pairwise kdtree"`
	Interpolation      *string  `json:"interpolation,omitempty" yaml:"interpolation,omitempty" env:"CONTACT_INTERPOLATION" validate:"omitempty,oneof=straddle forward"`
	SkipInvalid        *bool    `json:"skip_invalid,omitempty" yaml:"skip_invalid,omitempty" env:"CONTACT_SKIP_INVALID"`
	Recenter           *bool    `json:"recenter,omitempty" yaml:"recenter,omitempty" env:"CONTACT_RECENTER"`

	// Playback params
	FrameDelay *string `json:"frame_delay,omitempty" yaml:"frame_delay,omitempty" env:"CONTACT_FRAME_DELAY"` // duration string like "50ms"
	Loop       *bool   `json:"loop,omitempty" yaml:"loop,omitempty" env:"CONTACT_LOOP"`
}

var validate = validator.New()

const (
	defaultProximityThreshold = 5.0
	defaultSpatialIndex       = "pairwise"
	defaultInterpolation      = "straddle"
	defaultFrameDelay         = 50 * time.Millisecond
)

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON or YAML file.
// The file must have a .json, .yaml or .yml extension and be at most 1MB.
// Fields omitted from the file fall back to their defaults, so partial
// configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. Panics if the file cannot be loaded; intended for
// test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// ApplyEnv overrides fields from CONTACT_* environment variables and
// re-validates. Variables that are not set leave the field untouched.
func (c *TuningConfig) ApplyEnv() error {
	return c.applyEnv(env.Options{})
}

func (c *TuningConfig) applyEnv(opts env.Options) error {
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return c.Validate()
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	// +Inf passes gte.
	if c.ProximityThreshold != nil {
		v := *c.ProximityThreshold
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("proximity_threshold must be finite, got %v", v)
		}
	}

	if c.FrameDelay != nil && *c.FrameDelay != "" {
		d, err := time.ParseDuration(*c.FrameDelay)
		if err != nil {
			return fmt.Errorf("invalid frame_delay '%s': %w", *c.FrameDelay, err)
		}
		if d < 0 {
			return fmt.Errorf("frame_delay must be non-negative, got %v", d)
		}
	}

	return nil
}

// GetProximityThreshold returns the proximity_threshold value or the default.
func (c *TuningConfig) GetProximityThreshold() float64 {
	if c.ProximityThreshold == nil {
		return defaultProximityThreshold
	}
	return *c.ProximityThreshold
}

// GetSpatialIndex returns the spatial_index value or the default.
func (c *TuningConfig) GetSpatialIndex() string {
	if c.SpatialIndex == nil || *c.SpatialIndex == "" {
		return defaultSpatialIndex
	}
	return *c.SpatialIndex
}

// GetInterpolation returns the interpolation value or the default.
func (c *TuningConfig) GetInterpolation() string {
	if c.Interpolation == nil || *c.Interpolation == "" {
		return defaultInterpolation
	}
	return *c.Interpolation
}

// GetSkipInvalid returns the skip_invalid value or the default.
func (c *TuningConfig) GetSkipInvalid() bool {
	if c.SkipInvalid == nil {
		return false // default: abort on the first invalid trajectory
	}
	return *c.SkipInvalid
}

// GetRecenter returns the recenter value or the default.
func (c *TuningConfig) GetRecenter() bool {
	if c.Recenter == nil {
		return false
	}
	return *c.Recenter
}

// GetFrameDelay parses and returns the FrameDelay as a time.Duration.
func (c *TuningConfig) GetFrameDelay() time.Duration {
	if c.FrameDelay == nil || *c.FrameDelay == "" {
		return defaultFrameDelay
	}
	d, err := time.ParseDuration(*c.FrameDelay)
	if err != nil {
		return defaultFrameDelay // default on parse error
	}
	return d
}

// GetLoop returns the loop value or the default.
func (c *TuningConfig) GetLoop() bool {
	if c.Loop == nil {
		return false
	}
	return *c.Loop
}
