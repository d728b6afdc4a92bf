package motionblur

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter marks a motion parameter outside its documented range
	ErrInvalidParameter = errors.New("invalid motion parameter")

	// ErrUnsupportedArity is returned for motion paths with other than one or two segments
	ErrUnsupportedArity = errors.New("motion path must have one or two segments")
)

// Segment is a straight-line smear of Length pixels in direction Angle
// (degrees, counter-clockwise from the horizontal axis).
type Segment struct {
	Length float64
	Angle  int
}

// Validate checks Length >= 0 and Angle in [0,360)
func (s Segment) Validate() error {
	if s.Length < 0 || math.IsNaN(s.Length) || math.IsInf(s.Length, 0) {
		return fmt.Errorf("%w: length %v must be a finite value >= 0", ErrInvalidParameter, s.Length)
	}
	if s.Angle < 0 || s.Angle >= 360 {
		return fmt.Errorf("%w: angle %d must be in [0,360)", ErrInvalidParameter, s.Angle)
	}
	return nil
}

// Coefficients are the projections of a segment onto the frequency axes
type Coefficients struct {
	A float64
	B float64
}

// Resolve derives the directional coefficients of a segment:
//
//	a = L / sqrt(1 + tan(θ)²), negated for 90° < θ < 270°
//	b = a·tan(θ), forced negative at θ = 270°
//
// Both are rounded to 5 decimals. θ = 90° and 270° go through the
// floating-point tangent like every other angle; only the 270° sign is
// patched up afterwards.
func Resolve(s Segment) Coefficients {
	theta := float64(s.Angle) * (math.Pi / 180)
	tan := math.Tan(theta)

	a := s.Length / math.Sqrt(1+tan*tan)
	if s.Angle > 90 && s.Angle < 270 {
		a = -a
	}

	b := a * tan
	if s.Angle == 270 && b > 0 {
		b = -b
	}

	return Coefficients{A: round5(a), B: round5(b)}
}

// round5 rounds half to even at the fifth decimal
func round5(x float64) float64 {
	return math.RoundToEven(x*1e5) / 1e5
}

// Path is the motion during one exposure: either Single or Dual.
type Path interface {
	// Exposure is the relative exposure time T
	Exposure() float64

	// Segments lists the segments in traversal order
	Segments() []Segment

	// Coefficients resolves every segment
	Coefficients() []Coefficients

	isPath()
}

// Single moves along one segment for the whole exposure
type Single struct {
	Segment      Segment
	ExposureTime float64
}

func (p Single) Exposure() float64   { return p.ExposureTime }
func (p Single) Segments() []Segment { return []Segment{p.Segment} }
func (p Single) Coefficients() []Coefficients {
	return []Coefficients{Resolve(p.Segment)}
}
func (Single) isPath() {}

// Dual moves along First for half the exposure, then along Second
type Dual struct {
	First        Segment
	Second       Segment
	ExposureTime float64
}

func (p Dual) Exposure() float64   { return p.ExposureTime }
func (p Dual) Segments() []Segment { return []Segment{p.First, p.Second} }
func (p Dual) Coefficients() []Coefficients {
	return []Coefficients{Resolve(p.First), Resolve(p.Second)}
}
func (Dual) isPath() {}

// NewPath builds a Single or Dual path from a segment list and validates it.
// Exposure must be a finite value > 0.
func NewPath(exposure float64, segments ...Segment) (Path, error) {
	if exposure <= 0 || math.IsNaN(exposure) || math.IsInf(exposure, 0) {
		return nil, fmt.Errorf("%w: exposure time %v must be > 0", ErrInvalidParameter, exposure)
	}
	for i, s := range segments {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
	}

	switch len(segments) {
	case 1:
		return Single{Segment: segments[0], ExposureTime: exposure}, nil
	case 2:
		return Dual{First: segments[0], Second: segments[1], ExposureTime: exposure}, nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedArity, len(segments))
	}
}
