package detect

import (
	"fmt"

	"github.com/seegkit/seegkit/internal/monitoring"
	"github.com/seegkit/seegkit/internal/volume"
)

// Density fallback defaults. The generous eps tolerates irregular in-vivo
// spacing at the cost of occasionally merging neighbouring electrodes, which
// is why this strategy is the comparison baseline rather than the default.
const (
	DefaultDensityEpsMM  = 8.0
	DefaultDensityMinPts = 2
)

// DensityDetector is the legacy baseline strategy: density-based clustering
// of the same local-maxima candidates, without the contact-pitch constraint,
// followed by the shared linearity filter and tip/entry ordering.
type DensityDetector struct {
	EpsMM  float64 // neighbourhood radius in millimetres
	MinPts int     // minimum neighbourhood size (self included) for a core point
}

// NewDensityDetector creates a density fallback with explicit parameters.
func NewDensityDetector(epsMM float64, minPts int) *DensityDetector {
	return &DensityDetector{EpsMM: epsMM, MinPts: minPts}
}

// NewDefaultDensityDetector creates a density fallback with default tuning.
func NewDefaultDensityDetector() *DensityDetector {
	return NewDensityDetector(DefaultDensityEpsMM, DefaultDensityMinPts)
}

// Name implements Detector.
func (d *DensityDetector) Name() string { return "density" }

// Detect implements Detector.
func (d *DensityDetector) Detect(vol *volume.Volume, cfg Config) (*DetectionResult, error) {
	if err := vol.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.EpsMM <= 0 {
		return nil, fmt.Errorf("%w: density eps must be positive, got %v", ErrInvalidConfig, d.EpsMM)
	}
	if d.MinPts < 1 {
		return nil, fmt.Errorf("%w: density minPts must be >= 1, got %d", ErrInvalidConfig, d.MinPts)
	}

	threshold := cfg.Threshold
	if cfg.AdaptiveThreshold {
		threshold = AdaptiveThreshold(vol, threshold)
	}

	cands := ExtractCandidates(vol, threshold, cfg.NeighborhoodRadius)
	kept, excluded := filterSkullBase(cands, vol.NZ, cfg.SkullBaseMarginPercent)

	chains, err := d.clusterChains(kept, vol.VoxelMM, cfg)
	if err != nil {
		return nil, err
	}

	res := buildResult(kept, excluded, chains, vol, cfg)
	monitoring.Logf("detect[%s]: %d electrodes from %d candidates (%d unabsorbed)",
		d.Name(), len(res.Electrodes), len(cands), len(res.Unabsorbed))
	return res, nil
}

// clusterChains groups candidates by density and applies the shared length
// and linearity filters. Accepted chains carry window index -1 so results
// from the two strategies remain distinguishable.
func (d *DensityDetector) clusterChains(cands []Candidate, voxelMM volume.VoxelSize, cfg Config) ([]Chain, error) {
	if len(cands) == 0 {
		return nil, nil
	}
	pts := physicalPoints(cands, voxelMM)
	labels := dbscan(pts, d.EpsMM, d.MinPts)

	maxLabel := 0
	for _, l := range labels {
		if l > maxLabel {
			maxLabel = l
		}
	}

	var chains []Chain
	for cluster := 1; cluster <= maxLabel; cluster++ {
		var indices []int
		for i, l := range labels {
			if l == cluster {
				indices = append(indices, i)
			}
		}
		if len(indices) < cfg.MinContacts {
			continue
		}
		axis, lin, err := principalAxis(chainPoints(cands, indices))
		if err != nil {
			return nil, fmt.Errorf("density cluster %d: %w", cluster, err)
		}
		if lin < cfg.LinearityThreshold {
			continue
		}
		chains = append(chains, Chain{Indices: indices, Window: -1, Linearity: lin, Axis: axis})
	}
	return chains, nil
}

// dbscan labels points by density connectivity: 0 = unvisited (never left
// behind), -1 = noise, >0 = cluster id. Expansion follows a queue seeded
// from each unvisited core point in ascending index order, with sorted
// neighbour lists, so labels are deterministic.
func dbscan(pts [][3]float64, epsMM float64, minPts int) []int {
	labels := make([]int, len(pts))
	grid := newSpatialGrid(pts, epsMM)
	clusterID := 0

	for i := range pts {
		if labels[i] != 0 {
			continue
		}
		neighbors := grid.neighborsWithin(pts, i, 0, epsMM)
		if len(neighbors)+1 < minPts {
			labels[i] = -1
			continue
		}

		clusterID++
		labels[i] = clusterID
		queue := append([]int(nil), neighbors...)
		for j := 0; j < len(queue); j++ {
			idx := queue[j]
			if labels[idx] == -1 {
				labels[idx] = clusterID // noise becomes a border point
			}
			if labels[idx] != 0 {
				continue
			}
			labels[idx] = clusterID
			next := grid.neighborsWithin(pts, idx, 0, epsMM)
			if len(next)+1 >= minPts {
				queue = append(queue, next...)
			}
		}
	}
	return labels
}
