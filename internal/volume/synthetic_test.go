package volume

import (
	"math"
	"testing"
)

func TestAddBlobClipsAtBoundary(t *testing.T) {
	v, err := New(10, 10, 10, Isotropic(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Blob centred on a corner: most of the sphere falls outside.
	AddBlob(v, 0, 0, 0, 2, 1000)

	if v.At(0, 0, 0) != 1000 {
		t.Error("blob centre not stamped")
	}
	if v.At(2, 0, 0) != 1000 {
		t.Error("in-bounds blob voxel not stamped")
	}
	if v.At(3, 0, 0) != 0 {
		t.Error("voxel outside blob radius stamped")
	}
}

func TestAddBlobKeepsBrighterVoxels(t *testing.T) {
	v, _ := New(10, 10, 10, Isotropic(1))
	AddBlob(v, 5, 5, 5, 1, 2000)
	AddBlob(v, 5, 5, 5, 1, 1000)
	if v.At(5, 5, 5) != 2000 {
		t.Errorf("overlapping dimmer blob overwrote brighter voxel: %v", v.At(5, 5, 5))
	}
}

func TestAddElectrodePhysicalPitch(t *testing.T) {
	// 2 mm voxels along Z: a 4 mm pitch must step 2 voxels, not 4.
	v, _ := New(50, 50, 50, VoxelSize{1, 1, 2})
	centres, err := AddElectrode(v, SyntheticElectrode{
		Start:     [3]float64{25, 25, 10},
		Dir:       [3]float64{0, 0, 1},
		Contacts:  3,
		PitchMM:   4,
		Radius:    0,
		Intensity: 1500,
	})
	if err != nil {
		t.Fatalf("AddElectrode: %v", err)
	}
	want := [][3]float64{{25, 25, 10}, {25, 25, 12}, {25, 25, 14}}
	if len(centres) != len(want) {
		t.Fatalf("got %d centres, want %d", len(centres), len(want))
	}
	for i := range want {
		if centres[i] != want[i] {
			t.Errorf("centre %d = %v, want %v", i, centres[i], want[i])
		}
	}
}

func TestAddElectrodeRejectsBadInput(t *testing.T) {
	v, _ := New(10, 10, 10, Isotropic(1))
	if _, err := AddElectrode(v, SyntheticElectrode{Dir: [3]float64{}, Contacts: 3, PitchMM: 3.5}); err == nil {
		t.Error("expected error for zero direction")
	}
	if _, err := AddElectrode(v, SyntheticElectrode{Dir: [3]float64{0, 0, 1}, Contacts: 0, PitchMM: 3.5}); err == nil {
		t.Error("expected error for zero contacts")
	}
}

func TestBuildScene(t *testing.T) {
	v, truth, err := BuildScene(60, 60, 60, Isotropic(1), []SyntheticElectrode{
		{Start: [3]float64{20, 20, 10}, Dir: [3]float64{0, 0, 1}, Contacts: 5, PitchMM: 4, Radius: 1, Intensity: 1500},
		{Start: [3]float64{40, 40, 10}, Dir: [3]float64{0, 0, 1}, Contacts: 8, PitchMM: 3.5, Radius: 1, Intensity: 1500},
	})
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	if len(truth) != 2 {
		t.Fatalf("got %d truth entries, want 2", len(truth))
	}
	if len(truth[0]) != 5 || len(truth[1]) != 8 {
		t.Errorf("truth contact counts = %d,%d; want 5,8", len(truth[0]), len(truth[1]))
	}
	for _, centres := range truth {
		for _, c := range centres {
			x, y, z := int(math.Round(c[0])), int(math.Round(c[1])), int(math.Round(c[2]))
			if v.At(x, y, z) != 1500 {
				t.Errorf("centre (%d,%d,%d) not stamped", x, y, z)
			}
		}
	}
}
