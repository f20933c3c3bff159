package main

import (
	"math"

	"github.com/seegkit/seegkit/internal/detect"
)

// benchMetrics compares a detection result against ground-truth contacts.
type benchMetrics struct {
	TruthElectrodes    int
	MatchedElectrodes  int
	DetectedElectrodes int
	ContactPrecision   float64
	ContactRecall      float64
}

// contactMatchToleranceVox is the maximum voxel distance for a detected
// contact to count as a hit on a ground-truth centre.
const contactMatchToleranceVox = 2.0

// evaluate matches detected contacts to truth centres with a nearest-neighbour
// rule and reports electrode- and contact-level agreement. An electrode is
// "matched" when more than half of its contacts hit the same truth electrode.
func evaluate(res *detect.DetectionResult, truth [][][3]float64) benchMetrics {
	m := benchMetrics{
		TruthElectrodes:    len(truth),
		DetectedElectrodes: len(res.Electrodes),
	}

	totalTruth := 0
	for _, centres := range truth {
		totalTruth += len(centres)
	}

	matchedTruth := make([]bool, len(truth))
	truePositives := 0
	totalDetected := 0

	for _, e := range res.Electrodes {
		hitsPerTruth := make(map[int]int)
		for _, c := range e.Contacts {
			totalDetected++
			ti, ok := nearestTruth(c, truth)
			if ok {
				truePositives++
				hitsPerTruth[ti]++
			}
		}
		for ti, hits := range hitsPerTruth {
			if hits*2 > len(e.Contacts) {
				matchedTruth[ti] = true
			}
		}
	}

	for _, matched := range matchedTruth {
		if matched {
			m.MatchedElectrodes++
		}
	}
	if totalDetected > 0 {
		m.ContactPrecision = float64(truePositives) / float64(totalDetected)
	}
	if totalTruth > 0 {
		m.ContactRecall = float64(truePositives) / float64(totalTruth)
	}
	return m
}

// nearestTruth returns the index of the truth electrode owning the closest
// centre within tolerance, or ok=false when nothing is close enough.
func nearestTruth(p detect.Point3, truth [][][3]float64) (int, bool) {
	best := math.MaxFloat64
	bestIdx := -1
	for ti, centres := range truth {
		for _, c := range centres {
			dx, dy, dz := p.X-c[0], p.Y-c[1], p.Z-c[2]
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if d < best {
				best = d
				bestIdx = ti
			}
		}
	}
	if bestIdx < 0 || best > contactMatchToleranceVox {
		return 0, false
	}
	return bestIdx, true
}
