package detect

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/seegkit/seegkit/internal/volume"
)

// Pitch family boundaries in millimetres. Standard electrodes sit at 3.5 mm,
// medium variants at 4.3–4.9 mm, wide variants at 6.5 mm.
const (
	standardPitchMaxMM = 4.0
	mediumPitchMaxMM   = 5.5
)

// contactGapsMM returns the physical distances between consecutive contacts
// of a tip→entry ordered sequence.
func contactGapsMM(ordered []Point3, voxelMM volume.VoxelSize) []float64 {
	if len(ordered) < 2 {
		return nil
	}
	gaps := make([]float64, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		dx := (ordered[i].X - ordered[i-1].X) * voxelMM[0]
		dy := (ordered[i].Y - ordered[i-1].Y) * voxelMM[1]
		dz := (ordered[i].Z - ordered[i-1].Z) * voxelMM[2]
		gaps = append(gaps, math.Sqrt(dx*dx+dy*dy+dz*dz))
	}
	return gaps
}

// pitchStats estimates the electrode's inter-contact distance as the mean and
// standard deviation of consecutive gaps.
func pitchStats(ordered []Point3, voxelMM volume.VoxelSize) (meanMM, stdMM float64) {
	gaps := contactGapsMM(ordered, voxelMM)
	switch len(gaps) {
	case 0:
		return 0, 0
	case 1:
		return gaps[0], 0
	}
	return stat.MeanStdDev(gaps, nil)
}

// scoreConfidence combines contact count, spacing regularity, and spacing
// plausibility into a 0..1 advisory score. More contacts, a lower gap
// variance, and a pitch inside the known 2–8 mm range all raise it.
func scoreConfidence(contactCount int, meanPitchMM, stdPitchMM float64) float64 {
	countFactor := math.Min(1.0, float64(contactCount)/15.0)

	regularity := 0.5
	if meanPitchMM > 0 {
		regularity = math.Max(0, 1.0-stdPitchMM/meanPitchMM)
	}

	plausibility := 1.0
	if meanPitchMM < 2.0 || meanPitchMM > 8.0 {
		plausibility = 0.7
	}

	conf := 0.3*countFactor + 0.4*regularity + 0.3*plausibility
	return math.Min(1.0, math.Max(0.0, conf))
}

// pitchFamily buckets a mean pitch into the standard/medium/wide families.
func pitchFamily(meanPitchMM float64) string {
	switch {
	case meanPitchMM < standardPitchMaxMM:
		return "standard"
	case meanPitchMM < mediumPitchMaxMM:
		return "medium"
	default:
		return "wide"
	}
}
