package morph

import "github.com/fogleman/ease"

// RateFunc remaps the tween parameter t in [0, 1] to shape the motion of a
// transformation. Rate functions must map 0 to 0 and 1 to 1.
type RateFunc func(t float64) float64

// Linear is the identity rate: constant-speed interpolation.
//
// Parameters:
//   - t: the raw parameter
//
// Returns:
//   - float64: t unchanged
func Linear(t float64) float64 {
	return t
}

// Smooth eases in and out with a cubic curve. This is the default tween
// rate.
//
// Parameters:
//   - t: the raw parameter
//
// Returns:
//   - float64: the eased parameter
func Smooth(t float64) float64 {
	return ease.InOutCubic(t)
}

// RushInto starts slowly and accelerates into the destination.
//
// Parameters:
//   - t: the raw parameter
//
// Returns:
//   - float64: the eased parameter
func RushInto(t float64) float64 {
	return ease.InQuad(t)
}

// RushFrom leaves quickly and decelerates toward the destination.
//
// Parameters:
//   - t: the raw parameter
//
// Returns:
//   - float64: the eased parameter
func RushFrom(t float64) float64 {
	return ease.OutQuad(t)
}

// ThereAndBack runs the transformation forward over the first half of t and
// back over the second half, easing both ways.
//
// Parameters:
//   - t: the raw parameter
//
// Returns:
//   - float64: the eased, folded parameter (0 at t=0 and t=1, 1 at t=0.5)
func ThereAndBack(t float64) float64 {
	if t < 0.5 {
		return ease.InOutQuad(2 * t)
	}
	return ease.InOutQuad(2 * (1 - t))
}
