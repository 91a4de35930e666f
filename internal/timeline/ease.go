package timeline

// EaseInOut is a symmetric quadratic ease with zero velocity at both ends.
// p is clamped to [0, 1].
func EaseInOut(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	if p < 0.5 {
		return 2 * p * p
	}
	return -1 + (4-2*p)*p
}
