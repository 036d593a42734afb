package planning

import "math"

// epsilon absorbs floating error so exact products such as 100×1.1 are not
// pushed to the next integer by ceil.
const epsilon = 1e-9

// ceilQty rounds a quantity up to a non-negative integer.
func ceilQty(v float64) int {
	if v <= epsilon {
		return 0
	}
	return int(math.Ceil(v - epsilon))
}

// roundQty rounds half away from zero to a non-negative integer.
func roundQty(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(v + epsilon))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
