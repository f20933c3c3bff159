package volume

import (
	"errors"
	"math"
	"testing"
)

func TestNewVolume(t *testing.T) {
	v, err := New(10, 20, 30, Isotropic(0.5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v.Len() != 10*20*30 {
		t.Errorf("Len = %d, want %d", v.Len(), 10*20*30)
	}
	if v.At(5, 10, 15) != 0 {
		t.Error("new volume not zero-filled")
	}
}

func TestValidateRejectsBadVolumes(t *testing.T) {
	tests := []struct {
		name string
		vol  func() *Volume
	}{
		{"nil volume", func() *Volume { return nil }},
		{"zero extent", func() *Volume {
			return &Volume{NX: 0, NY: 10, NZ: 10, VoxelMM: Isotropic(1)}
		}},
		{"negative extent", func() *Volume {
			return &Volume{NX: 10, NY: -1, NZ: 10, VoxelMM: Isotropic(1), data: make([]float32, 100)}
		}},
		{"short buffer", func() *Volume {
			return &Volume{NX: 10, NY: 10, NZ: 10, VoxelMM: Isotropic(1), data: make([]float32, 99)}
		}},
		{"zero voxel size", func() *Volume {
			return &Volume{NX: 2, NY: 2, NZ: 2, VoxelMM: VoxelSize{1, 0, 1}, data: make([]float32, 8)}
		}},
		{"nan voxel size", func() *Volume {
			return &Volume{NX: 2, NY: 2, NZ: 2, VoxelMM: VoxelSize{1, math.NaN(), 1}, data: make([]float32, 8)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vol().Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidVolume) {
				t.Errorf("error %v does not wrap ErrInvalidVolume", err)
			}
		})
	}
}

func TestFromDataLayout(t *testing.T) {
	data := make([]float32, 2*3*4)
	v, err := FromData(data, 2, 3, 4, Isotropic(1))
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}

	v.Set(1, 2, 3, 42)
	// x-fastest layout: index = x + nx*(y + ny*z)
	if got := data[1+2*(2+3*3)]; got != 42 {
		t.Errorf("buffer[1+2*(2+3*3)] = %v, want 42", got)
	}
	if v.At(1, 2, 3) != 42 {
		t.Errorf("At(1,2,3) = %v, want 42", v.At(1, 2, 3))
	}
}

func TestPhysicalMMAnisotropic(t *testing.T) {
	v, err := New(10, 10, 10, VoxelSize{0.5, 0.5, 2.0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	x, y, z := v.PhysicalMM(4, 6, 3)
	if x != 2.0 || y != 3.0 || z != 6.0 {
		t.Errorf("PhysicalMM(4,6,3) = (%v,%v,%v), want (2,3,6)", x, y, z)
	}
}
