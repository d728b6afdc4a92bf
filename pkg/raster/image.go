// Package raster holds the in-memory image model shared by every synthesizer:
// a grid of float64 samples per channel, plus conversions to and from the
// standard library image types and the on-disk codecs.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Image is a rows x cols grid of samples with one (grayscale) or three (RGB)
// channels. Samples are conceptually 8-bit intensities in [0,255] but are kept
// as float64 so that filters can leave the range before normalization.
type Image struct {
	Rows     int
	Cols     int
	Channels int

	// Data holds one row-major plane per channel
	Data [][]float64
}

// New allocates a zeroed image
func New(rows, cols, channels int) *Image {
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, rows*cols)
	}
	return &Image{Rows: rows, Cols: cols, Channels: channels, Data: data}
}

// At returns the sample of channel ch at row r, column c
func (m *Image) At(ch, r, c int) float64 {
	return m.Data[ch][r*m.Cols+c]
}

// Set stores v at channel ch, row r, column c
func (m *Image) Set(ch, r, c int, v float64) {
	m.Data[ch][r*m.Cols+c] = v
}

// Clone returns a deep copy
func (m *Image) Clone() *Image {
	out := New(m.Rows, m.Cols, m.Channels)
	for ch := range m.Data {
		copy(out.Data[ch], m.Data[ch])
	}
	return out
}

// SameShape reports whether o has the same dimensions and channel count as m
func (m *Image) SameShape(o *Image) bool {
	return m.Rows == o.Rows && m.Cols == o.Cols && m.Channels == o.Channels
}

// Map returns a new image with f applied to every sample
func (m *Image) Map(f func(v float64) float64) *Image {
	out := New(m.Rows, m.Cols, m.Channels)
	for ch, plane := range m.Data {
		for i, v := range plane {
			out.Data[ch][i] = f(v)
		}
	}
	return out
}

// String describes the shape, e.g. "64x64x1"
func (m *Image) String() string {
	return fmt.Sprintf("%dx%dx%d", m.Rows, m.Cols, m.Channels)
}

// FromImage converts a decoded image into samples in [0,255].
// Grayscale sources (8 or 16 bit) produce one channel, everything else three.
// Alpha is discarded.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()

	switch src := img.(type) {
	case *image.Gray:
		out := New(rows, cols, 1)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				out.Data[0][y*cols+x] = float64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return out
	case *image.Gray16:
		out := New(rows, cols, 1)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				out.Data[0][y*cols+x] = float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y >> 8)
			}
		}
		return out
	}

	if isGrayModel(img.ColorModel()) {
		out := New(rows, cols, 1)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
				out.Data[0][y*cols+x] = float64(g.Y)
			}
		}
		return out
	}

	out := New(rows, cols, 3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := y*cols + x
			out.Data[0][i] = float64(c.R)
			out.Data[1][i] = float64(c.G)
			out.Data[2][i] = float64(c.B)
		}
	}
	return out
}

// ToImage quantizes the samples to 8 bits (round, then clamp to [0,255]).
// One channel yields *image.Gray, three yield an opaque *image.NRGBA.
func (m *Image) ToImage() image.Image {
	rect := image.Rect(0, 0, m.Cols, m.Rows)
	if m.Channels == 1 {
		img := image.NewGray(rect)
		for i, v := range m.Data[0] {
			img.Pix[(i/m.Cols)*img.Stride+i%m.Cols] = Quantize(v)
		}
		return img
	}

	img := image.NewNRGBA(rect)
	for i := 0; i < m.Rows*m.Cols; i++ {
		off := (i/m.Cols)*img.Stride + (i%m.Cols)*4
		img.Pix[off] = Quantize(m.Data[0][i])
		img.Pix[off+1] = Quantize(m.Data[1][i])
		img.Pix[off+2] = Quantize(m.Data[2][i])
		img.Pix[off+3] = 0xff
	}
	return img
}

// Quantize rounds v to the nearest integer and clamps it to [0,255]
func Quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// isGrayModel reports whether every color of the model is a shade of gray.
// Paletted BMP and PNG files with a gray ramp count as grayscale.
func isGrayModel(model color.Model) bool {
	palette, ok := model.(color.Palette)
	if !ok {
		// Palette is a slice and must not reach the comparison below
		return model == color.GrayModel || model == color.Gray16Model
	}
	if len(palette) == 0 {
		return false
	}
	for _, c := range palette {
		r, g, b, _ := c.RGBA()
		if r != g || g != b {
			return false
		}
	}
	return true
}
