package detect

import (
	"math"
	"testing"

	"github.com/seegkit/seegkit/internal/volume"
)

func TestContactGapsMM(t *testing.T) {
	ordered := []Point3{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 2},
		{X: 0, Y: 0, Z: 4},
	}
	gaps := contactGapsMM(ordered, volume.VoxelSize{1, 1, 2})
	if len(gaps) != 2 {
		t.Fatalf("got %d gaps, want 2", len(gaps))
	}
	for i, g := range gaps {
		if g != 4 {
			t.Errorf("gap %d = %v mm, want 4 (2 voxels at 2 mm slices)", i, g)
		}
	}

	if gaps := contactGapsMM(ordered[:1], volume.Isotropic(1)); gaps != nil {
		t.Errorf("single contact produced gaps %v", gaps)
	}
}

func TestPitchStats(t *testing.T) {
	regular := []Point3{
		{Z: 0}, {Z: 3.5}, {Z: 7}, {Z: 10.5},
	}
	mean, std := pitchStats(regular, volume.Isotropic(1))
	if math.Abs(mean-3.5) > 1e-9 {
		t.Errorf("mean = %v, want 3.5", mean)
	}
	if std > 1e-9 {
		t.Errorf("std = %v, want 0 for regular pitch", std)
	}

	mean, std = pitchStats([]Point3{{Z: 0}, {Z: 4}}, volume.Isotropic(1))
	if mean != 4 || std != 0 {
		t.Errorf("two contacts: mean=%v std=%v, want 4, 0", mean, std)
	}

	mean, std = pitchStats([]Point3{{Z: 0}}, volume.Isotropic(1))
	if mean != 0 || std != 0 {
		t.Errorf("one contact: mean=%v std=%v, want 0, 0", mean, std)
	}
}

func TestScoreConfidence(t *testing.T) {
	// A long, perfectly regular electrode at plausible pitch scores near 1.
	high := scoreConfidence(15, 3.5, 0)
	if high < 0.99 {
		t.Errorf("ideal electrode confidence = %v, want ~1.0", high)
	}

	// Irregular spacing lowers the score.
	irregular := scoreConfidence(15, 3.5, 2.0)
	if irregular >= high {
		t.Errorf("irregular (%v) not below regular (%v)", irregular, high)
	}

	// Implausible pitch lowers the score.
	implausible := scoreConfidence(15, 12.0, 0)
	if implausible >= high {
		t.Errorf("implausible pitch (%v) not below plausible (%v)", implausible, high)
	}

	// Fewer contacts lower the score.
	short := scoreConfidence(4, 3.5, 0)
	if short >= high {
		t.Errorf("short electrode (%v) not below long (%v)", short, high)
	}

	for _, conf := range []float64{high, irregular, implausible, short} {
		if conf < 0 || conf > 1 {
			t.Errorf("confidence %v outside [0,1]", conf)
		}
	}
}

func TestPitchFamily(t *testing.T) {
	tests := []struct {
		pitch float64
		want  string
	}{
		{3.5, "standard"},
		{3.99, "standard"},
		{4.5, "medium"},
		{5.49, "medium"},
		{6.5, "wide"},
		{8.0, "wide"},
	}
	for _, tt := range tests {
		if got := pitchFamily(tt.pitch); got != tt.want {
			t.Errorf("pitchFamily(%v) = %q, want %q", tt.pitch, got, tt.want)
		}
	}
}
