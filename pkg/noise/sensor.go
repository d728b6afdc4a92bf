package noise

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"imgdegrade/pkg/raster"
)

// Sensor models a photon-counting sensor: Poisson shot noise whose variance
// follows the signal, plus signal-independent Gaussian read noise.
//
// Each sample v becomes Gain·Poisson(v/Gain) + N(0, Sigma), clamped to
// [0,255]. Sigma = 0 gives shot noise only.
type Sensor struct {
	// Gain is the conversion gain a (> 0); larger gains mean fewer
	// photons per intensity level and stronger shot noise
	Gain float64

	// Sigma is the read-noise standard deviation b (>= 0)
	Sigma float64

	// Src drives both distributions. Nil uses the package-level source.
	Src rand.Source
}

// Validate checks Gain > 0 and Sigma >= 0
func (s Sensor) Validate() error {
	if !(s.Gain > 0) || !finite(s.Gain) {
		return fmt.Errorf("%w: gain %v must be > 0", ErrInvalidParameter, s.Gain)
	}
	if !(s.Sigma >= 0) || !finite(s.Sigma) {
		return fmt.Errorf("%w: sigma %v must be >= 0", ErrInvalidParameter, s.Sigma)
	}
	return nil
}

// Apply returns a noisy copy of img
func (s Sensor) Apply(img *raster.Image) (*raster.Image, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	read := distuv.Normal{Mu: 0, Sigma: s.Sigma, Src: s.Src}
	return img.Map(func(v float64) float64 {
		// Samples are integer intensities before photon counting
		photons := distuv.Poisson{Lambda: math.Trunc(v) / s.Gain, Src: s.Src}.Rand()
		return clamp8(s.Gain*photons + read.Rand())
	}), nil
}
