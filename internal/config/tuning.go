// Package config loads detection tuning parameters from JSON files. Fields
// omitted from a file keep their defaults, so partial configs are safe; the
// Get* accessors are the single source of default values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seegkit/seegkit/internal/detect"
)

// maxConfigFileSize bounds tuning files; anything larger is rejected.
const maxConfigFileSize = 1 * 1024 * 1024

// TuningConfig is the on-disk tuning schema. Every field is optional; nil
// means "use the default".
type TuningConfig struct {
	Threshold            *float64     `json:"threshold,omitempty"`
	NeighborhoodRadius   *int         `json:"neighborhood_radius,omitempty"`
	SpacingWindows       [][2]float64 `json:"spacing_windows,omitempty"`
	LinearityThreshold   *float64     `json:"linearity_threshold,omitempty"`
	MinContacts          *int         `json:"min_contacts,omitempty"`
	OverlapDedupFraction *float64     `json:"overlap_dedup_fraction,omitempty"`
	TipReference         *[3]float64  `json:"tip_reference,omitempty"`
	AdaptiveThreshold    *bool        `json:"adaptive_threshold,omitempty"`
	SkullBaseMarginPct   *float64     `json:"skull_base_margin_percent,omitempty"`
	WindowWorkers        *int         `json:"window_workers,omitempty"`

	// Density fallback parameters.
	DensityEpsMM  *float64 `json:"density_eps_mm,omitempty"`
	DensityMinPts *int     `json:"density_min_pts,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig reads and validates a tuning file. The path must carry a
// .json extension and the file must be under the size limit.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate defers the real parameter checks to the detection config built
// from this file, so the two layers can never disagree.
func (c *TuningConfig) Validate() error {
	return c.DetectionConfig().Validate()
}

// DetectionConfig materialises the immutable parameter record the detectors
// consume, applying defaults for unset fields.
func (c *TuningConfig) DetectionConfig() detect.Config {
	cfg := detect.DefaultConfig()
	if c.Threshold != nil {
		cfg.Threshold = *c.Threshold
	}
	if c.NeighborhoodRadius != nil {
		cfg.NeighborhoodRadius = *c.NeighborhoodRadius
	}
	if len(c.SpacingWindows) > 0 {
		windows := make([]detect.SpacingWindow, len(c.SpacingWindows))
		for i, w := range c.SpacingWindows {
			windows[i] = detect.SpacingWindow{MinMM: w[0], MaxMM: w[1]}
		}
		cfg.SpacingWindows = windows
	}
	if c.LinearityThreshold != nil {
		cfg.LinearityThreshold = *c.LinearityThreshold
	}
	if c.MinContacts != nil {
		cfg.MinContacts = *c.MinContacts
	}
	if c.OverlapDedupFraction != nil {
		cfg.OverlapDedupFraction = *c.OverlapDedupFraction
	}
	if c.TipReference != nil {
		cfg.TipReference = *c.TipReference
	}
	if c.AdaptiveThreshold != nil {
		cfg.AdaptiveThreshold = *c.AdaptiveThreshold
	}
	if c.SkullBaseMarginPct != nil {
		cfg.SkullBaseMarginPercent = *c.SkullBaseMarginPct
	}
	if c.WindowWorkers != nil {
		cfg.WindowWorkers = *c.WindowWorkers
	}
	return cfg
}

// GetDensityEpsMM returns the density fallback eps or the default.
func (c *TuningConfig) GetDensityEpsMM() float64 {
	if c.DensityEpsMM == nil {
		return detect.DefaultDensityEpsMM
	}
	return *c.DensityEpsMM
}

// GetDensityMinPts returns the density fallback minPts or the default.
func (c *TuningConfig) GetDensityMinPts() int {
	if c.DensityMinPts == nil {
		return detect.DefaultDensityMinPts
	}
	return *c.DensityMinPts
}
