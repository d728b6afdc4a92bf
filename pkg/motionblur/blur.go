// Package motionblur synthesizes camera or subject motion blur in the
// frequency domain.
//
// A motion path (one or two straight segments during an exposure) is resolved
// into directional coefficients, turned into an optical transfer function on
// the zero-padded frequency mesh, and applied to each channel of an image.
package motionblur

import (
	"imgdegrade/pkg/raster"
)

// Blur applies the motion blur described by Path
type Blur struct {
	Path Path
}

// Apply blurs img. The result has img's shape and is not normalized.
func (b Blur) Apply(img *raster.Image) (*raster.Image, error) {
	out, _, err := b.ApplyWithOTF(img)
	return out, err
}

// ApplyWithOTF blurs img and also returns the transfer function that was used
func (b Blur) ApplyWithOTF(img *raster.Image) (*raster.Image, OTF, error) {
	M, N := PaddedSize(img.Rows, img.Cols)
	H := BuildOTF(M, N, b.Path)

	out, err := Filter(img, H)
	if err != nil {
		return nil, OTF{}, err
	}
	return out, H, nil
}
