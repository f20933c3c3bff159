package volume

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidVolume indicates a volume that cannot be processed (zero extent,
// missing data, or a non-positive voxel size). Callers should check with
// errors.Is.
var ErrInvalidVolume = errors.New("invalid volume")

// VoxelSize is the physical extent of one voxel in millimetres per axis,
// ordered X, Y, Z. CT voxels are frequently anisotropic (thicker slices
// along Z), so the three components are kept separate.
type VoxelSize [3]float64

// Isotropic returns a VoxelSize with the same extent on every axis.
func Isotropic(mm float64) VoxelSize {
	return VoxelSize{mm, mm, mm}
}

// Volume is a dense X×Y×Z grid of scalar intensities with a physical voxel
// size. Once handed to a detector it is treated as read-only; detectors never
// write to the grid.
type Volume struct {
	NX, NY, NZ int
	VoxelMM    VoxelSize

	data []float32
}

// New allocates a zero-filled volume with the given extents and voxel size.
func New(nx, ny, nz int, voxelMM VoxelSize) (*Volume, error) {
	v := &Volume{
		NX:      nx,
		NY:      ny,
		NZ:      nz,
		VoxelMM: voxelMM,
		data:    make([]float32, nx*ny*nz),
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// FromData wraps an existing intensity buffer laid out x-fastest
// (index = x + nx*(y + ny*z)). The buffer is not copied.
func FromData(data []float32, nx, ny, nz int, voxelMM VoxelSize) (*Volume, error) {
	v := &Volume{NX: nx, NY: ny, NZ: nz, VoxelMM: voxelMM, data: data}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks extents, buffer length, voxel size, and intensity finiteness
// preconditions that every detector relies on. It returns an error wrapping
// ErrInvalidVolume on the first violation found.
func (v *Volume) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: nil volume", ErrInvalidVolume)
	}
	if v.NX <= 0 || v.NY <= 0 || v.NZ <= 0 {
		return fmt.Errorf("%w: extent %dx%dx%d has a zero or negative axis",
			ErrInvalidVolume, v.NX, v.NY, v.NZ)
	}
	if len(v.data) != v.NX*v.NY*v.NZ {
		return fmt.Errorf("%w: data length %d does not match extent %dx%dx%d",
			ErrInvalidVolume, len(v.data), v.NX, v.NY, v.NZ)
	}
	for axis, mm := range v.VoxelMM {
		if mm <= 0 || math.IsNaN(mm) || math.IsInf(mm, 0) {
			return fmt.Errorf("%w: voxel size %v mm on axis %d", ErrInvalidVolume, mm, axis)
		}
	}
	return nil
}

// Index converts voxel coordinates to a flat buffer offset.
func (v *Volume) Index(x, y, z int) int {
	return x + v.NX*(y+v.NY*z)
}

// At returns the intensity at the given voxel coordinates.
func (v *Volume) At(x, y, z int) float32 {
	return v.data[v.Index(x, y, z)]
}

// Set writes an intensity value. Only volume builders (synthetic scenes,
// loaders) should call this; detectors treat volumes as immutable.
func (v *Volume) Set(x, y, z int, val float32) {
	v.data[v.Index(x, y, z)] = val
}

// Data exposes the underlying buffer for read-only scans.
func (v *Volume) Data() []float32 {
	return v.data
}

// Len returns the total voxel count.
func (v *Volume) Len() int {
	return len(v.data)
}

// PhysicalMM converts fractional voxel coordinates to millimetres.
func (v *Volume) PhysicalMM(x, y, z float64) (float64, float64, float64) {
	return x * v.VoxelMM[0], y * v.VoxelMM[1], z * v.VoxelMM[2]
}
