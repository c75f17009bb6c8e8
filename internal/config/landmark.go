// Package config loads the JSON tuning file for the landmarking pipeline.
// All fields are optional pointers; the Get* methods fall back to the
// published defaults, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LandmarkConfig is the root configuration for a landmarking run. The field
// set mirrors the command-line surface so the same JSON can drive batch runs.
type LandmarkConfig struct {
	Algorithm    *string  `json:"algorithm,omitempty"`
	Method       *string  `json:"curvature_method,omitempty"`
	CoronalAxis  *string  `json:"coronal_axis,omitempty"`
	ResampleStep *float64 `json:"resampling_step,omitempty"`

	// Spline fit params
	SplineKnots *int `json:"spline_knots,omitempty"`

	// Discrete smoothing params
	SmoothLine      *bool    `json:"smooth_line,omitempty"`
	SmoothingFactor *float64 `json:"smoothing_factor,omitempty"`
	Iterations      *int     `json:"iterations,omitempty"`

	// Kjeldsberg divergence params
	MarkDiverging *bool   `json:"mark_diverging_arteries,omitempty"`
	FlagSemantics *string `json:"divergence_flag_semantics,omitempty"` // "literal" or "intended"
}

// EmptyLandmarkConfig returns a LandmarkConfig with all fields unset.
func EmptyLandmarkConfig() *LandmarkConfig {
	return &LandmarkConfig{}
}

// Load reads a LandmarkConfig from a JSON file. The path must carry a .json
// extension and the file must be under the max size; omitted fields keep
// their defaults.
func Load(path string) (*LandmarkConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
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

	cfg := EmptyLandmarkConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values that have a constrained domain.
func (c *LandmarkConfig) Validate() error {
	if c.ResampleStep != nil && *c.ResampleStep <= 0 {
		return fmt.Errorf("resampling_step must be positive, got %f", *c.ResampleStep)
	}
	if c.SplineKnots != nil && *c.SplineKnots < 4 {
		return fmt.Errorf("spline_knots must be at least 4, got %d", *c.SplineKnots)
	}
	if c.SmoothingFactor != nil && (*c.SmoothingFactor <= 0 || *c.SmoothingFactor > 1) {
		return fmt.Errorf("smoothing_factor must be in (0, 1], got %f", *c.SmoothingFactor)
	}
	if c.Iterations != nil && *c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", *c.Iterations)
	}
	if c.FlagSemantics != nil {
		switch *c.FlagSemantics {
		case "literal", "intended":
		default:
			return fmt.Errorf("divergence_flag_semantics must be \"literal\" or \"intended\", got %q", *c.FlagSemantics)
		}
	}
	return nil
}

// GetAlgorithm returns the algorithm name or the default.
func (c *LandmarkConfig) GetAlgorithm() string {
	if c.Algorithm == nil {
		return "bogunovic"
	}
	return *c.Algorithm
}

// GetMethod returns the curvature method or the default.
func (c *LandmarkConfig) GetMethod() string {
	if c.Method == nil {
		return "frenet"
	}
	return *c.Method
}

// GetCoronalAxis returns the coronal axis name or the default.
func (c *LandmarkConfig) GetCoronalAxis() string {
	if c.CoronalAxis == nil {
		return "z"
	}
	return *c.CoronalAxis
}

// GetResampleStep returns the resampling step or the default.
func (c *LandmarkConfig) GetResampleStep() float64 {
	if c.ResampleStep == nil {
		return 0.1
	}
	return *c.ResampleStep
}

// GetSplineKnots returns the spline knot count or the default.
func (c *LandmarkConfig) GetSplineKnots() int {
	if c.SplineKnots == nil {
		return 11
	}
	return *c.SplineKnots
}

// GetSmoothLine returns whether the centerline is Laplacian-smoothed before
// attribute computation.
func (c *LandmarkConfig) GetSmoothLine() bool {
	if c.SmoothLine == nil {
		return false
	}
	return *c.SmoothLine
}

// GetSmoothingFactor returns the Laplacian smoothing factor or the default.
func (c *LandmarkConfig) GetSmoothingFactor() float64 {
	if c.SmoothingFactor == nil {
		return 1.0
	}
	return *c.SmoothingFactor
}

// GetIterations returns the smoothing iteration count or the default.
func (c *LandmarkConfig) GetIterations() int {
	if c.Iterations == nil {
		return 100
	}
	return *c.Iterations
}

// GetMarkDiverging returns whether diverging arteries are marked.
func (c *LandmarkConfig) GetMarkDiverging() bool {
	if c.MarkDiverging == nil {
		return false
	}
	return *c.MarkDiverging
}

// GetFlagSemantics returns the divergence flag semantics or the default.
func (c *LandmarkConfig) GetFlagSemantics() string {
	if c.FlagSemantics == nil {
		return "literal"
	}
	return *c.FlagSemantics
}
