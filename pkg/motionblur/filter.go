package motionblur

import (
	"errors"
	"fmt"

	"imgdegrade/pkg/raster"
)

// ErrSizeMismatch is returned when an OTF does not cover twice the image size
var ErrSizeMismatch = errors.New("otf size does not match padded image size")

// PaddedSize returns the transform size used for an image: twice each
// dimension, so that the product of spectra is a linear convolution rather
// than a circular one.
func PaddedSize(rows, cols int) (M, N int) {
	return 2 * rows, 2 * cols
}

// Filter multiplies every channel of img by H in the frequency domain and
// returns the real part of the result cropped to the original size.
//
// Each channel is transformed at H's size (zero-padded top-left), multiplied,
// inverse transformed and cropped to the top-left rows x cols. The output is
// not range normalized.
func Filter(img *raster.Image, H OTF) (*raster.Image, error) {
	M, N := PaddedSize(img.Rows, img.Cols)
	if H.Rows != M || H.Cols != N || len(H.Data) != M*N {
		return nil, fmt.Errorf("%w: image %s needs %dx%d, got %dx%d",
			ErrSizeMismatch, img, M, N, H.Rows, H.Cols)
	}

	out := raster.New(img.Rows, img.Cols, img.Channels)
	for ch := 0; ch < img.Channels; ch++ {
		spectrum := fft2D(img.Data[ch], img.Rows, img.Cols, M, N)
		for i := range spectrum {
			spectrum[i] *= H.Data[i]
		}
		ifft2D(spectrum, M, N)

		plane := out.Data[ch]
		for r := 0; r < img.Rows; r++ {
			for c := 0; c < img.Cols; c++ {
				plane[r*img.Cols+c] = real(spectrum[r*N+c])
			}
		}
	}

	return out, nil
}
