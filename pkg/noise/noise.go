// Package noise synthesizes sensor noise and lossy-codec artifacts on images.
//
// Every synthesizer validates its parameters before touching the image and
// returns an output already clamped to [0,255].
package noise

import (
	"errors"
	"math"
)

// ErrInvalidParameter marks a noise parameter outside its documented range
var ErrInvalidParameter = errors.New("invalid noise parameter")

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clamp8 limits a sample to the 8-bit display range
func clamp8(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}
