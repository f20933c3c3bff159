package detect

// Point3 is a position in fractional voxel coordinates.
type Point3 struct {
	X, Y, Z float64
}

// Candidate is one putative contact position: the centroid of a connected
// group of local-maximum voxels, with the peak intensity of that group.
// Candidates are created once per run and never mutated.
type Candidate struct {
	Point     Point3
	Intensity float32
}

// SpacingWindow is an inclusive physical distance range, in millimetres,
// within which two contacts are considered pitch-compatible. One window
// covers one electrode family (standard, medium, wide).
type SpacingWindow struct {
	MinMM float64 `json:"min_mm"`
	MaxMM float64 `json:"max_mm"`
}

// Chain is a connected component of the spacing-constrained adjacency graph
// that survived the linearity filter. Indices refer to the candidate slice of
// the run that produced the chain.
type Chain struct {
	Indices   []int // ascending candidate indices
	Window    int   // originating spacing-window index; -1 for the density fallback
	Linearity float64
	Axis      [3]float64 // unit principal axis
}

// minIndex returns the smallest candidate index in the chain. Chains are
// built with Indices ascending, so this is the first element.
func (c *Chain) minIndex() int {
	return c.Indices[0]
}

// DetectedElectrode is one grouped electrode: its contacts ordered tip to
// entry, the geometry score that accepted it, and advisory metadata derived
// from the contact sequence.
type DetectedElectrode struct {
	ID             string
	Contacts       []Point3 // ordered tip → entry, voxel coordinates
	Tip            Point3
	Entry          Point3
	LinearityScore float64
	ContactCount   int
	SourceWindow   int // spacing-window index; -1 for the density fallback

	// Advisory fields. They never influence accept/reject decisions.
	Confidence    float64
	MeanPitchMM   float64
	PitchStdMM    float64
	PitchFamily   string
	SuggestedName string
}

// DetectionResult is the complete outcome of one detector run. Electrodes
// have disjoint contact sets; Unabsorbed lists every candidate that no
// electrode claimed, for diagnostic display.
type DetectionResult struct {
	Electrodes []DetectedElectrode
	Unabsorbed []Candidate
}
