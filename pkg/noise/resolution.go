package noise

import (
	"fmt"
	"math"

	"github.com/nfnt/resize"

	"imgdegrade/pkg/raster"
)

// Resolution simulates a low-resolution capture: the image is shrunk by
// Factor with bicubic interpolation and enlarged back to its original size.
type Resolution struct {
	Factor float64
}

// Validate checks Factor >= 1
func (r Resolution) Validate() error {
	if !(r.Factor >= 1) || !finite(r.Factor) {
		return fmt.Errorf("%w: downscale factor %v must be >= 1", ErrInvalidParameter, r.Factor)
	}
	return nil
}

// Apply returns the downscaled-then-upscaled copy of img
func (r Resolution) Apply(img *raster.Image) (*raster.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	width := uint(math.Max(1, math.Round(float64(img.Cols)/r.Factor)))
	height := uint(math.Max(1, math.Round(float64(img.Rows)/r.Factor)))

	small := resize.Resize(width, height, img.ToImage(), resize.Bicubic)
	restored := resize.Resize(uint(img.Cols), uint(img.Rows), small, resize.Bicubic)

	out := raster.FromImage(restored)
	if !out.SameShape(img) {
		return nil, fmt.Errorf("resize produced %s, expected %s", out, img)
	}
	return out, nil
}
