package detect

import "github.com/seegkit/seegkit/internal/volume"

// Detector is the shared capability every detection strategy implements.
// Implementations must be pure: the same volume and config always produce
// the same result, and calls on different volumes are safe concurrently.
type Detector interface {
	// Detect processes one volume to completion. It returns an error only
	// for invalid input; an empty result is a valid outcome.
	Detect(vol *volume.Volume, cfg Config) (*DetectionResult, error)

	// Name identifies the strategy in logs and stored runs.
	Name() string
}

// Detect runs the default spacing-aware strategy. Most callers want this.
func Detect(vol *volume.Volume, cfg Config) (*DetectionResult, error) {
	return NewSpacingAwareDetector().Detect(vol, cfg)
}

// Verify at compile time that both strategies implement Detector.
var (
	_ Detector = (*SpacingAwareDetector)(nil)
	_ Detector = (*DensityDetector)(nil)
)
