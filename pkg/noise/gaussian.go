package noise

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"imgdegrade/pkg/raster"
)

// Gaussian adds zero-mean white Gaussian noise of standard deviation Sigma
// and clamps the result to [0,255]. This is the "electronic noise" model.
type Gaussian struct {
	Sigma float64
	Src   rand.Source
}

// Validate checks Sigma >= 0
func (g Gaussian) Validate() error {
	if !(g.Sigma >= 0) || !finite(g.Sigma) {
		return fmt.Errorf("%w: sigma %v must be >= 0", ErrInvalidParameter, g.Sigma)
	}
	return nil
}

// Apply returns a noisy copy of img
func (g Gaussian) Apply(img *raster.Image) (*raster.Image, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	normal := distuv.Normal{Mu: 0, Sigma: g.Sigma, Src: g.Src}
	return img.Map(func(v float64) float64 {
		return clamp8(v + normal.Rand())
	}), nil
}
