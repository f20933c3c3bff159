package detect

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/seegkit/seegkit/internal/volume"
)

// ExtractCandidates finds contact candidates: voxels whose intensity exceeds
// threshold and equals the maximum within their cubic neighbourhood of the
// given radius. Marked voxels are grouped into 26-connected components and
// each component contributes one candidate at its unweighted centroid, with
// the component's peak intensity attached.
//
// A volume with no voxel above threshold yields an empty slice, not an error.
// Candidates are ordered by the flat index of the component seed voxel, so
// the output is deterministic for identical input.
func ExtractCandidates(vol *volume.Volume, threshold float64, radius int) []Candidate {
	data := vol.Data()
	nmax := neighborhoodMax(vol, radius)

	marked := make([]bool, len(data))
	found := false
	for i, v := range data {
		if float64(v) > threshold && v == nmax[i] {
			marked[i] = true
			found = true
		}
	}
	if !found {
		return nil
	}
	return componentCentroids(vol, marked)
}

// neighborhoodMax computes, for every voxel, the maximum intensity within the
// cubic neighbourhood of the given radius. The cubic (Chebyshev) window is
// separable, so the filter runs as three 1-D passes, one per axis.
func neighborhoodMax(vol *volume.Volume, radius int) []float32 {
	nx, ny, nz := vol.NX, vol.NY, vol.NZ
	cur := make([]float32, vol.Len())
	copy(cur, vol.Data())
	next := make([]float32, vol.Len())

	// X axis: contiguous lines.
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			lineMax(cur, next, vol.Index(0, y, z), nx, 1, radius)
		}
	}
	cur, next = next, cur

	// Y axis.
	for z := 0; z < nz; z++ {
		for x := 0; x < nx; x++ {
			lineMax(cur, next, vol.Index(x, 0, z), ny, nx, radius)
		}
	}
	cur, next = next, cur

	// Z axis.
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			lineMax(cur, next, vol.Index(x, y, 0), nz, nx*ny, radius)
		}
	}
	return next
}

// lineMax writes the sliding-window maximum of one strided line from src into
// dst. The window is clipped at the line ends rather than padded.
func lineMax(src, dst []float32, base, n, stride, radius int) {
	for i := 0; i < n; i++ {
		lo := i - radius
		if lo < 0 {
			lo = 0
		}
		hi := i + radius
		if hi > n-1 {
			hi = n - 1
		}
		m := src[base+lo*stride]
		for j := lo + 1; j <= hi; j++ {
			if v := src[base+j*stride]; v > m {
				m = v
			}
		}
		dst[base+i*stride] = m
	}
}

// componentCentroids groups marked voxels into 26-connected components via
// breadth-first traversal in ascending flat-index order and emits one
// candidate per component.
func componentCentroids(vol *volume.Volume, marked []bool) []Candidate {
	nx, ny, nz := vol.NX, vol.NY, vol.NZ
	data := vol.Data()
	visited := make([]bool, len(marked))

	var cands []Candidate
	var queue []int
	for seed := range marked {
		if !marked[seed] || visited[seed] {
			continue
		}

		var sumX, sumY, sumZ float64
		var peak float32
		count := 0

		queue = queue[:0]
		queue = append(queue, seed)
		visited[seed] = true
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]

			x := idx % nx
			y := (idx / nx) % ny
			z := idx / (nx * ny)
			sumX += float64(x)
			sumY += float64(y)
			sumZ += float64(z)
			if data[idx] > peak {
				peak = data[idx]
			}
			count++

			for dz := -1; dz <= 1; dz++ {
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 && dz == 0 {
							continue
						}
						x2, y2, z2 := x+dx, y+dy, z+dz
						if x2 < 0 || x2 >= nx || y2 < 0 || y2 >= ny || z2 < 0 || z2 >= nz {
							continue
						}
						n := vol.Index(x2, y2, z2)
						if marked[n] && !visited[n] {
							visited[n] = true
							queue = append(queue, n)
						}
					}
				}
			}
		}

		cands = append(cands, Candidate{
			Point: Point3{
				X: sumX / float64(count),
				Y: sumY / float64(count),
				Z: sumZ / float64(count),
			},
			Intensity: peak,
		})
	}
	return cands
}

// AdaptiveThreshold nudges the base threshold toward the bright tail of the
// positive intensity distribution: at least the 95th percentile of positive
// voxels, clamped to [0.8·base, 1.5·base]. Scans whose bone is unusually
// bright would otherwise flood the extractor with false candidates.
func AdaptiveThreshold(vol *volume.Volume, base float64) float64 {
	var pos []float64
	for _, v := range vol.Data() {
		if v > 0 {
			pos = append(pos, float64(v))
		}
	}
	if len(pos) == 0 {
		return base
	}
	sort.Float64s(pos)
	p95 := stat.Quantile(0.95, stat.Empirical, pos, nil)
	t := math.Max(p95, base*0.8)
	return math.Min(t, base*1.5)
}

// filterSkullBase drops candidates whose Z coordinate falls inside the bottom
// margin of the volume, where skull-base bone artifacts concentrate. The
// excluded candidates are returned separately so they can still be reported
// as unabsorbed.
func filterSkullBase(cands []Candidate, nz int, marginPercent float64) (kept, excluded []Candidate) {
	if marginPercent <= 0 {
		return cands, nil
	}
	minZ := float64(nz) * marginPercent / 100
	for _, c := range cands {
		if c.Point.Z >= minZ {
			kept = append(kept, c)
		} else {
			excluded = append(excluded, c)
		}
	}
	return kept, excluded
}
