package detect

import (
	"errors"
	"testing"

	"github.com/seegkit/seegkit/internal/volume"
)

func TestDensityDetectFiveBlobLine(t *testing.T) {
	v, cfg := fiveBlobScenario(t)

	res, err := NewDefaultDensityDetector().Detect(v, cfg)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(res.Electrodes) != 1 {
		t.Fatalf("got %d electrodes, want 1", len(res.Electrodes))
	}
	e := res.Electrodes[0]
	if e.ContactCount != 5 {
		t.Errorf("ContactCount = %d, want 5", e.ContactCount)
	}
	if e.Tip.Z != 10 || e.Entry.Z != 26 {
		t.Errorf("tip.Z=%v entry.Z=%v, want 10, 26", e.Tip.Z, e.Entry.Z)
	}
	if e.SourceWindow != -1 {
		t.Errorf("SourceWindow = %d, want -1 for the density strategy", e.SourceWindow)
	}
}

func TestDensityDetectMergesCloseElectrodes(t *testing.T) {
	// Two parallel electrodes 7 voxels apart: outside the 3-6 mm spacing
	// window but inside the default 8 mm eps, so the density strategy merges
	// them into one non-linear cluster while the pitch-constrained strategy
	// keeps them separate.
	v, err := volume.New(100, 100, 100, volume.Isotropic(1))
	if err != nil {
		t.Fatalf("volume.New: %v", err)
	}
	for _, z := range []int{10, 14, 18, 22, 26} {
		volume.AddBlob(v, 46, 50, z, 1, 1500)
		volume.AddBlob(v, 53, 50, z, 1, 1500)
	}

	cfg := DefaultConfig()
	cfg.Threshold = 1000
	cfg.SpacingWindows = []SpacingWindow{{MinMM: 3, MaxMM: 6}}

	spacingRes, err := NewSpacingAwareDetector().Detect(v, cfg)
	if err != nil {
		t.Fatalf("spacing detect: %v", err)
	}
	densityRes, err := NewDefaultDensityDetector().Detect(v, cfg)
	if err != nil {
		t.Fatalf("density detect: %v", err)
	}

	if len(spacingRes.Electrodes) != 2 {
		t.Errorf("spacing strategy found %d electrodes, want 2", len(spacingRes.Electrodes))
	}
	if len(densityRes.Electrodes) >= len(spacingRes.Electrodes) {
		t.Errorf("density strategy found %d electrodes, expected fewer than spacing (%d)",
			len(densityRes.Electrodes), len(spacingRes.Electrodes))
	}
}

func TestDensityDetectInvalidParams(t *testing.T) {
	v, cfg := fiveBlobScenario(t)

	if _, err := NewDensityDetector(0, 2).Detect(v, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero eps error = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewDensityDetector(8, 0).Detect(v, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero minPts error = %v, want ErrInvalidConfig", err)
	}
}

func TestDBSCANLabels(t *testing.T) {
	pts := [][3]float64{
		{0, 0, 0}, {0, 0, 4}, {0, 0, 8}, // cluster 1
		{50, 50, 50}, {50, 50, 54}, // cluster 2
		{100, 0, 0}, // noise
	}
	labels := dbscan(pts, 5, 2)

	if labels[0] != 1 || labels[1] != 1 || labels[2] != 1 {
		t.Errorf("first cluster labels = %v, want all 1", labels[:3])
	}
	if labels[3] != 2 || labels[4] != 2 {
		t.Errorf("second cluster labels = %v, want all 2", labels[3:5])
	}
	if labels[5] != -1 {
		t.Errorf("isolated point label = %d, want -1", labels[5])
	}
}

func TestDBSCANNoiseBecomesBorder(t *testing.T) {
	// The middle point has only one neighbour within eps on each side at
	// first glance, but both ends are core points (minPts=3 counts self),
	// so the chain stays one cluster with no noise.
	pts := [][3]float64{
		{0, 0, 0}, {0, 0, 3}, {0, 0, 6}, {0, 0, 9}, {0, 0, 12},
	}
	labels := dbscan(pts, 4, 3)
	for i, l := range labels {
		if l != 1 {
			t.Errorf("labels[%d] = %d, want 1", i, l)
		}
	}
}
