package volume

import (
	"fmt"
	"math"
)

// SyntheticElectrode describes one straight run of evenly pitched bright
// blobs for scene construction. Start is in voxel coordinates; Dir need not
// be normalised.
type SyntheticElectrode struct {
	Start     [3]float64
	Dir       [3]float64
	Contacts  int
	PitchMM   float64
	Radius    int // blob radius in voxels; 0 = single voxel
	Intensity float32
}

// AddBlob stamps a bright sphere of the given voxel radius centred at
// (cx, cy, cz). Voxels outside the volume are skipped, so blobs near the
// boundary are clipped rather than rejected.
func AddBlob(v *Volume, cx, cy, cz, radius int, intensity float32) {
	r2 := radius * radius
	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy+dz*dz > r2 {
					continue
				}
				x, y, z := cx+dx, cy+dy, cz+dz
				if x < 0 || x >= v.NX || y < 0 || y >= v.NY || z < 0 || z >= v.NZ {
					continue
				}
				if v.At(x, y, z) < intensity {
					v.Set(x, y, z, intensity)
				}
			}
		}
	}
}

// AddElectrode stamps one synthetic electrode into the volume and returns the
// voxel-space centres of its contacts, tip first. The pitch is physical: the
// per-contact step is scaled by the voxel size on each axis so anisotropic
// volumes keep the requested millimetre spacing.
func AddElectrode(v *Volume, e SyntheticElectrode) ([][3]float64, error) {
	norm := math.Sqrt(e.Dir[0]*e.Dir[0] + e.Dir[1]*e.Dir[1] + e.Dir[2]*e.Dir[2])
	if norm == 0 {
		return nil, fmt.Errorf("synthetic electrode has zero direction")
	}
	if e.Contacts < 1 {
		return nil, fmt.Errorf("synthetic electrode needs at least one contact, got %d", e.Contacts)
	}

	// Unit direction in millimetres, then back to voxel units per axis.
	var stepVox [3]float64
	for axis := 0; axis < 3; axis++ {
		stepVox[axis] = e.Dir[axis] / norm * e.PitchMM / v.VoxelMM[axis]
	}

	centres := make([][3]float64, 0, e.Contacts)
	for i := 0; i < e.Contacts; i++ {
		cx := e.Start[0] + float64(i)*stepVox[0]
		cy := e.Start[1] + float64(i)*stepVox[1]
		cz := e.Start[2] + float64(i)*stepVox[2]
		AddBlob(v, int(math.Round(cx)), int(math.Round(cy)), int(math.Round(cz)), e.Radius, e.Intensity)
		centres = append(centres, [3]float64{math.Round(cx), math.Round(cy), math.Round(cz)})
	}
	return centres, nil
}

// BuildScene allocates a volume and stamps every electrode into it.
// Used by package tests and the benchmark tool.
func BuildScene(nx, ny, nz int, voxelMM VoxelSize, electrodes []SyntheticElectrode) (*Volume, [][][3]float64, error) {
	v, err := New(nx, ny, nz, voxelMM)
	if err != nil {
		return nil, nil, err
	}
	truth := make([][][3]float64, 0, len(electrodes))
	for i, e := range electrodes {
		centres, err := AddElectrode(v, e)
		if err != nil {
			return nil, nil, fmt.Errorf("electrode %d: %w", i, err)
		}
		truth = append(truth, centres)
	}
	return v, truth, nil
}
