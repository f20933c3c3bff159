package detect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// covarianceEpsilon is the floor below which the total variance of a point
// set is treated as degenerate. Chains reaching the linearity filter always
// hold at least two distinct points, so hitting this indicates a defect
// upstream, not a data condition.
const covarianceEpsilon = 1e-12

// principalAxis computes the dominant principal axis of a point set and the
// fraction of total variance it explains. The fraction is the linearity
// score: 1.0 for a perfect line, roughly 1/3 for an isotropic blob.
func principalAxis(pts []Point3) (axis [3]float64, linearity float64, err error) {
	n := float64(len(pts))
	if len(pts) < 2 {
		return axis, 0, fmt.Errorf("principal axis needs at least 2 points, got %d", len(pts))
	}

	var mx, my, mz float64
	for _, p := range pts {
		mx += p.X
		my += p.Y
		mz += p.Z
	}
	mx /= n
	my /= n
	mz /= n

	// Centered 3x3 covariance.
	var cxx, cxy, cxz, cyy, cyz, czz float64
	for _, p := range pts {
		dx := p.X - mx
		dy := p.Y - my
		dz := p.Z - mz
		cxx += dx * dx
		cxy += dx * dy
		cxz += dx * dz
		cyy += dy * dy
		cyz += dy * dz
		czz += dz * dz
	}
	cxx /= n
	cxy /= n
	cxz /= n
	cyy /= n
	cyz /= n
	czz /= n

	total := cxx + cyy + czz
	if total < covarianceEpsilon {
		return axis, 0, fmt.Errorf("degenerate covariance: %d coincident points", len(pts))
	}

	sym := mat.NewSymDense(3, []float64{
		cxx, cxy, cxz,
		cxy, cyy, cyz,
		cxz, cyz, czz,
	})
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return axis, 0, fmt.Errorf("eigendecomposition failed for chain of %d points", len(pts))
	}

	// Eigenvalues come back ascending; the dominant axis is the last column.
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	axis = [3]float64{vecs.At(0, 2), vecs.At(1, 2), vecs.At(2, 2)}
	normalizeAxisSign(&axis)

	linearity = vals[2] / total
	return axis, linearity, nil
}

// normalizeAxisSign resolves the eigenvector sign ambiguity: the component
// with the largest magnitude is made positive so repeated runs agree.
func normalizeAxisSign(axis *[3]float64) {
	maxAbs := 0.0
	lead := 0
	for i, v := range axis {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
			lead = i
		}
	}
	if axis[lead] < 0 {
		axis[0] = -axis[0]
		axis[1] = -axis[1]
		axis[2] = -axis[2]
	}
}

// chainPoints gathers the centroids for a set of candidate indices.
func chainPoints(cands []Candidate, indices []int) []Point3 {
	pts := make([]Point3, len(indices))
	for i, idx := range indices {
		pts[i] = cands[idx].Point
	}
	return pts
}
