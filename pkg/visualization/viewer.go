// Package visualization renders optical transfer functions as images, so a
// blur can be inspected in the frequency domain next to its output.
package visualization

import (
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"

	"imgdegrade/pkg/motionblur"
	"imgdegrade/pkg/raster"
)

// Component selects which part of the complex response is drawn
type Component string

const (
	// Magnitude is drawn on a log scale, log(1 + |H|)
	Magnitude Component = "magnitude"
	Phase     Component = "phase"
	Real      Component = "real"
)

// Components lists every component in the order SaveSpectrumSet writes them
var Components = []Component{Magnitude, Phase, Real}

// Viewer renders one transfer function
type Viewer struct {
	otf motionblur.OTF

	// centered arranges samples by frequency instead of transform order
	centered bool
}

// NewViewer creates a viewer for h. Without centering the samples are drawn
// in transform order; with it they are arranged by frequency, zero in the
// middle.
func NewViewer(h motionblur.OTF, centered bool) *Viewer {
	return &Viewer{otf: h, centered: centered}
}

// ExtractSpectrum draws one component as a single-channel image stretched to
// [0,255]. A flat component draws black.
func (v *Viewer) ExtractSpectrum(component Component) (*raster.Image, error) {
	var f func(complex128) float64
	switch component {
	case Magnitude:
		f = func(z complex128) float64 { return math.Log1p(cmplx.Abs(z)) }
	case Phase:
		f = cmplx.Phase
	case Real:
		f = func(z complex128) float64 { return real(z) }
	default:
		return nil, fmt.Errorf("invalid component: %s (must be magnitude, phase, or real)", component)
	}

	rows, cols := v.otf.Rows, v.otf.Cols
	img := raster.New(rows, cols, 1)

	if !v.centered {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				img.Set(0, r, c, f(v.otf.At(r, c)))
			}
		}
		return img.MinMaxNormalize(), nil
	}

	// Place every sample by its frequency: highest vertical frequency on
	// top, most negative horizontal frequency on the left
	U, V := motionblur.Mesh(rows, cols)
	minU, maxV := U[0][0], V[0][0]
	for c := range U[0] {
		minU = min(minU, U[0][c])
	}
	for r := range V {
		maxV = max(maxV, V[r][0])
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Set(0, maxV-V[r][c], U[r][c]-minU, f(v.otf.At(r, c)))
		}
	}

	return img.MinMaxNormalize(), nil
}

// SaveSpectrum writes an extracted spectrum. The format follows the file
// extension and defaults to PNG.
func (v *Viewer) SaveSpectrum(img *raster.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return raster.Encode(file, img, raster.FormatForName(filename, raster.FormatPNG), raster.EncodeOptions{JPEGQuality: 90})
}

// SaveSpectrumSet writes every component into outputDir as
// <prefix>_<component>.png
func (v *Viewer) SaveSpectrumSet(outputDir, prefix string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for _, component := range Components {
		img, err := v.ExtractSpectrum(component)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_%s.png", prefix, component))
		if err := v.SaveSpectrum(img, filename); err != nil {
			return err
		}
	}

	return nil
}
