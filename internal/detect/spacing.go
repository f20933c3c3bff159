package detect

import (
	"fmt"
	"sort"

	"github.com/seegkit/seegkit/internal/monitoring"
	"github.com/seegkit/seegkit/internal/volume"
)

// SpacingAwareDetector is the default strategy: local maxima, pitch-window
// adjacency, linear chain filtering, and multi-window reconciliation.
type SpacingAwareDetector struct{}

// NewSpacingAwareDetector returns the default detection strategy.
func NewSpacingAwareDetector() *SpacingAwareDetector {
	return &SpacingAwareDetector{}
}

// Name implements Detector.
func (d *SpacingAwareDetector) Name() string { return "spacing-aware" }

// Detect implements Detector. Validation failures surface before any
// computation; everything else is encoded in the shape of the result.
func (d *SpacingAwareDetector) Detect(vol *volume.Volume, cfg Config) (*DetectionResult, error) {
	if err := vol.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	threshold := cfg.Threshold
	if cfg.AdaptiveThreshold {
		threshold = AdaptiveThreshold(vol, threshold)
		monitoring.Debugf("detect: adaptive threshold %.1f (base %.1f)", threshold, cfg.Threshold)
	}

	cands := ExtractCandidates(vol, threshold, cfg.NeighborhoodRadius)
	kept, excluded := filterSkullBase(cands, vol.NZ, cfg.SkullBaseMarginPercent)

	chains, err := Reconcile(kept, vol.VoxelMM, cfg)
	if err != nil {
		return nil, err
	}

	res := buildResult(kept, excluded, chains, vol, cfg)
	monitoring.Logf("detect[%s]: %d electrodes from %d candidates (%d unabsorbed)",
		d.Name(), len(res.Electrodes), len(cands), len(res.Unabsorbed))
	return res, nil
}

// buildResult turns the final disjoint chain set into the public result:
// ordered contacts, tip/entry, advisory quality fields, and the unabsorbed
// candidate list. Electrodes are ordered by confidence (stable over the
// deterministic chain order) and numbered in that order.
func buildResult(cands, excluded []Candidate, chains []Chain, vol *volume.Volume, cfg Config) *DetectionResult {
	electrodes := make([]DetectedElectrode, 0, len(chains))
	absorbed := make(map[int]bool)
	for _, ch := range chains {
		pts := chainPoints(cands, ch.Indices)
		ordered, tip, entry := OrderContacts(pts, ch.Axis, cfg.TipReference)
		meanPitch, stdPitch := pitchStats(ordered, vol.VoxelMM)

		electrodes = append(electrodes, DetectedElectrode{
			Contacts:       ordered,
			Tip:            tip,
			Entry:          entry,
			LinearityScore: ch.Linearity,
			ContactCount:   len(ordered),
			SourceWindow:   ch.Window,
			Confidence:     scoreConfidence(len(ordered), meanPitch, stdPitch),
			MeanPitchMM:    meanPitch,
			PitchStdMM:     stdPitch,
			PitchFamily:    pitchFamily(meanPitch),
		})
		for _, idx := range ch.Indices {
			absorbed[idx] = true
		}
	}

	sort.SliceStable(electrodes, func(i, j int) bool {
		return electrodes[i].Confidence > electrodes[j].Confidence
	})

	existing := make(map[string]bool, len(electrodes))
	for i := range electrodes {
		electrodes[i].ID = fmt.Sprintf("electrode-%02d", i+1)
		name := SuggestName(electrodes[i].Tip, vol.NX, vol.NY, existing)
		existing[name] = true
		electrodes[i].SuggestedName = name
	}

	var unabsorbed []Candidate
	for i, c := range cands {
		if !absorbed[i] {
			unabsorbed = append(unabsorbed, c)
		}
	}
	unabsorbed = append(unabsorbed, excluded...)

	return &DetectionResult{Electrodes: electrodes, Unabsorbed: unabsorbed}
}
