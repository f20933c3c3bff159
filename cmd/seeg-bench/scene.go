package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/seegkit/seegkit/internal/volume"
)

// sceneSpec controls the synthetic benchmark scene.
type sceneSpec struct {
	NX, NY, NZ int
	VoxelMM    float64
	Electrodes int
	Contacts   int
	PitchMM    float64
	NoiseBlobs int
	Intensity  float32
	Seed       int64
}

// buildScene stamps the requested number of electrodes at random positions and
// directions, plus scattered noise blobs, and returns the volume with the
// ground-truth contact centres. Electrodes are kept apart so the scene has an
// unambiguous correct answer.
func buildScene(spec sceneSpec) (*volume.Volume, [][][3]float64, error) {
	rng := rand.New(rand.NewSource(spec.Seed))

	margin := float64(spec.Contacts) * spec.PitchMM / spec.VoxelMM
	if margin >= float64(spec.NZ)/2 {
		return nil, nil, fmt.Errorf("volume too small for %d contacts at %.1f mm pitch", spec.Contacts, spec.PitchMM)
	}

	var electrodes []volume.SyntheticElectrode
	var starts [][3]float64
	for len(electrodes) < spec.Electrodes {
		start := [3]float64{
			10 + rng.Float64()*float64(spec.NX-20),
			10 + rng.Float64()*float64(spec.NY-20),
			float64(spec.NZ) - 10 - margin - rng.Float64()*10,
		}
		// Mostly-vertical insertion with a small random tilt, entry above tip.
		dir := [3]float64{
			(rng.Float64() - 0.5) * 0.4,
			(rng.Float64() - 0.5) * 0.4,
			1.0,
		}

		tooClose := false
		for _, s := range starts {
			dx, dy := start[0]-s[0], start[1]-s[1]
			if math.Sqrt(dx*dx+dy*dy)*spec.VoxelMM < 20 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		starts = append(starts, start)
		electrodes = append(electrodes, volume.SyntheticElectrode{
			Start:     start,
			Dir:       dir,
			Contacts:  spec.Contacts,
			PitchMM:   spec.PitchMM,
			Radius:    1,
			Intensity: spec.Intensity,
		})
	}

	vol, truth, err := volume.BuildScene(spec.NX, spec.NY, spec.NZ, volume.Isotropic(spec.VoxelMM), electrodes)
	if err != nil {
		return nil, nil, err
	}

	for i := 0; i < spec.NoiseBlobs; i++ {
		volume.AddBlob(vol,
			rng.Intn(spec.NX), rng.Intn(spec.NY), rng.Intn(spec.NZ),
			0, spec.Intensity*0.9)
	}
	return vol, truth, nil
}
