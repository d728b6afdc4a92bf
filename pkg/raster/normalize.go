package raster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MinMaxNormalize stretches all channels jointly so that the smallest sample
// maps to 0 and the largest to 255. A constant image maps to all zeros.
func (m *Image) MinMaxNormalize() *Image {
	lo, hi := m.Range()
	span := hi - lo
	if span == 0 || math.IsNaN(span) {
		return New(m.Rows, m.Cols, m.Channels)
	}
	return m.Map(func(v float64) float64 {
		return (v - lo) / span * 255
	})
}

// Clamp limits every sample to [lo, hi]
func (m *Image) Clamp(lo, hi float64) *Image {
	return m.Map(func(v float64) float64 {
		return math.Max(lo, math.Min(hi, v))
	})
}

// Range returns the smallest and largest sample over all channels
func (m *Image) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, plane := range m.Data {
		if len(plane) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(plane))
		hi = math.Max(hi, floats.Max(plane))
	}
	return lo, hi
}

// Quantized returns a copy whose samples are the 8-bit values ToImage would
// write, still stored as float64
func (m *Image) Quantized() *Image {
	return m.Map(func(v float64) float64 {
		return float64(Quantize(v))
	})
}
