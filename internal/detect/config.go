package detect

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig indicates a Config that fails validation. Detection never
// starts with an invalid config; no partial result is produced.
var ErrInvalidConfig = errors.New("invalid detection config")

// Default tuning values. Spacing windows cover the contact pitches of common
// SEEG electrode families (roughly 2–8 mm between consecutive contacts).
const (
	DefaultThreshold            = 1400.0
	DefaultNeighborhoodRadius   = 2
	DefaultLinearityThreshold   = 0.80
	DefaultMinContacts          = 4
	DefaultOverlapDedupFraction = 0.5
)

// DefaultSpacingWindows returns the standard/medium/wide pitch windows.
func DefaultSpacingWindows() []SpacingWindow {
	return []SpacingWindow{
		{MinMM: 2.0, MaxMM: 5.0}, // standard pitch (3.5 mm)
		{MinMM: 3.5, MaxMM: 6.0}, // medium variants (4.3–4.9 mm)
		{MinMM: 5.0, MaxMM: 8.0}, // wide variants (6.5 mm)
	}
}

// Config is the explicit, immutable parameter record passed into every
// detector call. Detection is a pure function of the volume and this record.
type Config struct {
	// Threshold is the minimum intensity a voxel must exceed to count as a
	// local maximum.
	Threshold float64
	// NeighborhoodRadius is the local-maximum neighbourhood radius in voxels.
	NeighborhoodRadius int
	// SpacingWindows lists the physical contact-pitch ranges to try, one per
	// electrode family. Order matters: earlier windows win dedup ties.
	SpacingWindows []SpacingWindow
	// LinearityThreshold is the minimum fraction of variance the principal
	// axis must explain for a chain to be accepted.
	LinearityThreshold float64
	// MinContacts is the minimum chain length; shorter chains are rejected
	// before any geometry is computed.
	MinContacts int
	// OverlapDedupFraction: two chains sharing more than this fraction of the
	// smaller chain's points are treated as the same electrode.
	OverlapDedupFraction float64

	// TipReference is the anatomical direction the electrode tip points
	// toward, used to orient the contact sequence. The default {0,0,-1}
	// makes the inferior (lower Z) end the tip, which matches the usual
	// scanner orientation; callers with a validated anatomical axis should
	// supply it here.
	TipReference [3]float64

	// AdaptiveThreshold raises Threshold toward the bright tail of the
	// intensity histogram so scans with unusually bright bone do not flood
	// the extractor.
	AdaptiveThreshold bool
	// SkullBaseMarginPercent drops candidates in the bottom percentage of
	// the Z extent, where skull-base bone artifacts concentrate. 0 disables.
	SkullBaseMarginPercent float64
	// WindowWorkers bounds the number of spacing windows processed in
	// parallel. 0 or 1 keeps the run single-threaded. Purely a performance
	// knob: results are identical at any worker count.
	WindowWorkers int
}

// DefaultConfig returns the standard tuning for post-implant CT volumes.
func DefaultConfig() Config {
	return Config{
		Threshold:            DefaultThreshold,
		NeighborhoodRadius:   DefaultNeighborhoodRadius,
		SpacingWindows:       DefaultSpacingWindows(),
		LinearityThreshold:   DefaultLinearityThreshold,
		MinContacts:          DefaultMinContacts,
		OverlapDedupFraction: DefaultOverlapDedupFraction,
		TipReference:         [3]float64{0, 0, -1},
	}
}

// Validate checks every recognised option and returns an error wrapping
// ErrInvalidConfig on the first violation.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("%w: threshold must be finite, got %v", ErrInvalidConfig, c.Threshold)
	}
	if c.NeighborhoodRadius < 1 {
		return fmt.Errorf("%w: neighborhood radius must be >= 1, got %d", ErrInvalidConfig, c.NeighborhoodRadius)
	}
	if len(c.SpacingWindows) == 0 {
		return fmt.Errorf("%w: at least one spacing window is required", ErrInvalidConfig)
	}
	for i, w := range c.SpacingWindows {
		if w.MinMM <= 0 || math.IsNaN(w.MinMM) || math.IsNaN(w.MaxMM) {
			return fmt.Errorf("%w: spacing window %d has non-positive minimum %v", ErrInvalidConfig, i, w.MinMM)
		}
		if w.MinMM >= w.MaxMM {
			return fmt.Errorf("%w: spacing window %d has min %v >= max %v", ErrInvalidConfig, i, w.MinMM, w.MaxMM)
		}
	}
	if c.LinearityThreshold <= 0 || c.LinearityThreshold > 1 {
		return fmt.Errorf("%w: linearity threshold must be in (0,1], got %v", ErrInvalidConfig, c.LinearityThreshold)
	}
	if c.MinContacts < 2 {
		return fmt.Errorf("%w: min contacts must be >= 2, got %d", ErrInvalidConfig, c.MinContacts)
	}
	if c.OverlapDedupFraction <= 0 || c.OverlapDedupFraction > 1 {
		return fmt.Errorf("%w: overlap dedup fraction must be in (0,1], got %v", ErrInvalidConfig, c.OverlapDedupFraction)
	}
	if c.TipReference == [3]float64{} {
		return fmt.Errorf("%w: tip reference direction must be non-zero", ErrInvalidConfig)
	}
	if c.SkullBaseMarginPercent < 0 || c.SkullBaseMarginPercent >= 100 {
		return fmt.Errorf("%w: skull base margin must be in [0,100), got %v", ErrInvalidConfig, c.SkullBaseMarginPercent)
	}
	if c.WindowWorkers < 0 {
		return fmt.Errorf("%w: window workers must be >= 0, got %d", ErrInvalidConfig, c.WindowWorkers)
	}
	return nil
}
