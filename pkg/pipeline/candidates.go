package pipeline

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"imgdegrade/internal/models"
	"imgdegrade/pkg/motionblur"
	"imgdegrade/pkg/noise"
	"imgdegrade/pkg/raster"
)

// ErrEmptyCandidates is returned when a candidate list has nothing to draw from
var ErrEmptyCandidates = errors.New("candidate set is empty")

// Synthesizer produces a degraded copy of an image
type Synthesizer interface {
	Apply(img *raster.Image) (*raster.Image, error)
}

// Candidates is the set of parameter values one degradation kind draws from.
type Candidates interface {
	// Kind names the synthesizer the candidates feed
	Kind() models.Kind

	// Validate rejects empty lists and out-of-range values
	Validate() error

	// Draw picks one parameter combination uniformly
	Draw(r *RandomSource) models.Params
}

// MotionCandidates draws a blur length and angle, and optionally a second
// segment. Leaving the second lists empty yields single-segment paths.
type MotionCandidates struct {
	Lengths       []float64
	Angles        []int
	SecondLengths []float64
	SecondAngles  []int
	ExposureTime  float64
}

func (MotionCandidates) Kind() models.Kind { return models.MotionBlur }

func (m MotionCandidates) dual() bool {
	return len(m.SecondLengths) > 0 || len(m.SecondAngles) > 0
}

func (m MotionCandidates) Validate() error {
	if len(m.Lengths) == 0 {
		return fmt.Errorf("%w: no motion lengths", ErrEmptyCandidates)
	}
	if len(m.Angles) == 0 {
		return fmt.Errorf("%w: no motion angles", ErrEmptyCandidates)
	}
	if m.dual() && (len(m.SecondLengths) == 0 || len(m.SecondAngles) == 0) {
		return fmt.Errorf("%w: second segment needs both lengths and angles", ErrEmptyCandidates)
	}

	check := func(lengths []float64, angles []int) error {
		for _, l := range lengths {
			if err := (motionblur.Segment{Length: l}).Validate(); err != nil {
				return err
			}
		}
		for _, a := range angles {
			if err := (motionblur.Segment{Angle: a}).Validate(); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(m.Lengths, m.Angles); err != nil {
		return err
	}
	if err := check(m.SecondLengths, m.SecondAngles); err != nil {
		return fmt.Errorf("second segment: %w", err)
	}

	// Exposure is checked by building a representative path
	_, err := motionblur.NewPath(m.ExposureTime, motionblur.Segment{})
	return err
}

// Draw picks the length index first, then the angle index
func (m MotionCandidates) Draw(r *RandomSource) models.Params {
	p := models.Params{Kind: models.MotionBlur, ExposureTime: m.ExposureTime}
	p.Length = pick(r, m.Lengths)
	p.Angle = pick(r, m.Angles)
	if m.dual() {
		p.DualSegment = true
		p.SecondLength = pick(r, m.SecondLengths)
		p.SecondAngle = pick(r, m.SecondAngles)
	}
	return p
}

// SensorCandidates draws a conversion gain and a read-noise sigma
type SensorCandidates struct {
	Gains  []float64
	Sigmas []float64
}

func (SensorCandidates) Kind() models.Kind { return models.SensorNoise }

func (s SensorCandidates) Validate() error {
	if len(s.Gains) == 0 || len(s.Sigmas) == 0 {
		return fmt.Errorf("%w: sensor noise needs gains and sigmas", ErrEmptyCandidates)
	}
	for _, g := range s.Gains {
		for _, sigma := range s.Sigmas {
			if err := (noise.Sensor{Gain: g, Sigma: sigma}).Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s SensorCandidates) Draw(r *RandomSource) models.Params {
	return models.Params{
		Kind:  models.SensorNoise,
		Gain:  pick(r, s.Gains),
		Sigma: pick(r, s.Sigmas),
	}
}

// GaussianCandidates draws an additive noise level
type GaussianCandidates struct {
	Sigmas []float64
}

func (GaussianCandidates) Kind() models.Kind { return models.GaussianNoise }

func (g GaussianCandidates) Validate() error {
	if len(g.Sigmas) == 0 {
		return fmt.Errorf("%w: no noise levels", ErrEmptyCandidates)
	}
	for _, sigma := range g.Sigmas {
		if err := (noise.Gaussian{Sigma: sigma}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (g GaussianCandidates) Draw(r *RandomSource) models.Params {
	return models.Params{Kind: models.GaussianNoise, Sigma: pick(r, g.Sigmas)}
}

// CompressionCandidates draws a JPEG quality factor
type CompressionCandidates struct {
	Qualities []int
}

func (CompressionCandidates) Kind() models.Kind { return models.Compression }

func (c CompressionCandidates) Validate() error {
	if len(c.Qualities) == 0 {
		return fmt.Errorf("%w: no quality levels", ErrEmptyCandidates)
	}
	for _, q := range c.Qualities {
		if err := (noise.Compression{Quality: q}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c CompressionCandidates) Draw(r *RandomSource) models.Params {
	return models.Params{Kind: models.Compression, Quality: pick(r, c.Qualities)}
}

// ResolutionCandidates draws a downscale factor
type ResolutionCandidates struct {
	Factors []float64
}

func (ResolutionCandidates) Kind() models.Kind { return models.Resolution }

func (c ResolutionCandidates) Validate() error {
	if len(c.Factors) == 0 {
		return fmt.Errorf("%w: no downscale factors", ErrEmptyCandidates)
	}
	for _, f := range c.Factors {
		if err := (noise.Resolution{Factor: f}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c ResolutionCandidates) Draw(r *RandomSource) models.Params {
	return models.Params{Kind: models.Resolution, Factor: pick(r, c.Factors)}
}

// NewSynthesizer builds the synthesizer for drawn parameters. The noise
// source feeds the stochastic models only.
func NewSynthesizer(p models.Params, noiseSrc rand.Source) (Synthesizer, error) {
	switch p.Kind {
	case models.MotionBlur:
		segments := []motionblur.Segment{{Length: p.Length, Angle: p.Angle}}
		if p.DualSegment {
			segments = append(segments, motionblur.Segment{Length: p.SecondLength, Angle: p.SecondAngle})
		}
		path, err := motionblur.NewPath(p.ExposureTime, segments...)
		if err != nil {
			return nil, err
		}
		return motionblur.Blur{Path: path}, nil
	case models.SensorNoise:
		return noise.Sensor{Gain: p.Gain, Sigma: p.Sigma, Src: noiseSrc}, nil
	case models.GaussianNoise:
		return noise.Gaussian{Sigma: p.Sigma, Src: noiseSrc}, nil
	case models.Compression:
		return noise.Compression{Quality: p.Quality}, nil
	case models.Resolution:
		return noise.Resolution{Factor: p.Factor}, nil
	default:
		return nil, fmt.Errorf("unknown degradation kind %v", p.Kind)
	}
}
