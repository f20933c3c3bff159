package detect

import "sort"

// OrderContacts sorts chain points by their projection onto the principal
// axis and orients the sequence so the first element is the tip. The tip is
// the end whose position projects furthest along ref, the configured
// anatomical reference direction; with the default ref of {0,0,-1} the
// inferior (lower Z) end becomes the tip.
//
// Ties in projection are broken by original point order, so the ordering is
// deterministic.
func OrderContacts(pts []Point3, axis [3]float64, ref [3]float64) (ordered []Point3, tip, entry Point3) {
	var cx, cy, cz float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
		cz += p.Z
	}
	n := float64(len(pts))
	cx /= n
	cy /= n
	cz /= n

	type proj struct {
		t   float64
		idx int
	}
	projs := make([]proj, len(pts))
	for i, p := range pts {
		projs[i] = proj{
			t:   (p.X-cx)*axis[0] + (p.Y-cy)*axis[1] + (p.Z-cz)*axis[2],
			idx: i,
		}
	}
	sort.SliceStable(projs, func(a, b int) bool { return projs[a].t < projs[b].t })

	ordered = make([]Point3, len(pts))
	for i, pr := range projs {
		ordered[i] = pts[pr.idx]
	}

	first := ordered[0]
	last := ordered[len(ordered)-1]
	firstScore := first.X*ref[0] + first.Y*ref[1] + first.Z*ref[2]
	lastScore := last.X*ref[0] + last.Y*ref[1] + last.Z*ref[2]
	if lastScore > firstScore {
		// Reverse so the tip end comes first.
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}
	return ordered, ordered[0], ordered[len(ordered)-1]
}
