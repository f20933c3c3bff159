package detect

import (
	"math"
	"sort"

	"github.com/seegkit/seegkit/internal/volume"
)

// spatialGrid buckets points into cubic cells for neighbour queries. Cell
// size should match the largest query radius so a query only touches the
// 3×3×3 block around a point.
type spatialGrid struct {
	cellMM float64
	cells  map[[3]int][]int
}

func newSpatialGrid(points [][3]float64, cellMM float64) *spatialGrid {
	g := &spatialGrid{
		cellMM: cellMM,
		cells:  make(map[[3]int][]int, len(points)),
	}
	for i, p := range points {
		key := g.cellKey(p)
		g.cells[key] = append(g.cells[key], i)
	}
	return g
}

func (g *spatialGrid) cellKey(p [3]float64) [3]int {
	return [3]int{
		int(math.Floor(p[0] / g.cellMM)),
		int(math.Floor(p[1] / g.cellMM)),
		int(math.Floor(p[2] / g.cellMM)),
	}
}

// neighborsWithin returns the indices of all points whose distance from
// points[idx] lies in [minMM, maxMM], excluding idx itself. The result is
// sorted ascending so callers iterate deterministically regardless of map
// order.
func (g *spatialGrid) neighborsWithin(points [][3]float64, idx int, minMM, maxMM float64) []int {
	p := points[idx]
	key := g.cellKey(p)
	min2 := minMM * minMM
	max2 := maxMM * maxMM

	var out []int
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				cell := [3]int{key[0] + dx, key[1] + dy, key[2] + dz}
				for _, j := range g.cells[cell] {
					if j == idx {
						continue
					}
					q := points[j]
					ddx := q[0] - p[0]
					ddy := q[1] - p[1]
					ddz := q[2] - p[2]
					d2 := ddx*ddx + ddy*ddy + ddz*ddz
					if d2 >= min2 && d2 <= max2 {
						out = append(out, j)
					}
				}
			}
		}
	}
	sort.Ints(out)
	return out
}

// physicalPoints converts candidate centroids to millimetre coordinates,
// scaling each axis by the voxel size.
func physicalPoints(cands []Candidate, voxelMM volume.VoxelSize) [][3]float64 {
	pts := make([][3]float64, len(cands))
	for i, c := range cands {
		pts[i] = [3]float64{
			c.Point.X * voxelMM[0],
			c.Point.Y * voxelMM[1],
			c.Point.Z * voxelMM[2],
		}
	}
	return pts
}

// BuildAdjacency returns the undirected spacing-constrained graph over the
// candidates as per-node neighbour lists: an edge joins i and j iff their
// physical separation lies inside the window, inclusive at both ends. The
// window encodes the known contact pitch of one electrode family, so nearby
// noise that does not sit at the expected pitch gets no edge.
func BuildAdjacency(cands []Candidate, voxelMM volume.VoxelSize, win SpacingWindow) [][]int {
	pts := physicalPoints(cands, voxelMM)
	grid := newSpatialGrid(pts, win.MaxMM)

	adj := make([][]int, len(cands))
	for i := range pts {
		adj[i] = grid.neighborsWithin(pts, i, win.MinMM, win.MaxMM)
	}
	return adj
}
