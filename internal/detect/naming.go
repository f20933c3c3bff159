package detect

import "fmt"

// SuggestName derives a short anatomical position code from an electrode's
// tip location: L/R hemisphere from the X midline, A/P from the Y midline,
// with a numeric suffix when the base code is already taken. The code is a
// starting point for manual review, not a clinical label.
func SuggestName(tip Point3, nx, ny int, existing map[string]bool) string {
	side := "L"
	if tip.X > float64(nx)/2 {
		side = "R"
	}
	position := "P"
	if tip.Y > float64(ny)/2 {
		position = "A"
	}

	base := side + position
	name := base
	for counter := 2; existing[name]; counter++ {
		name = fmt.Sprintf("%s%d", base, counter)
	}
	return name
}
