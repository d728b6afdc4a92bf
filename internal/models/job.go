package models

import (
	"fmt"
	"strings"
)

// Kind identifies which synthesizer produced a degraded image
type Kind int

const (
	MotionBlur Kind = iota
	SensorNoise
	GaussianNoise
	Compression
	Resolution
)

// String returns the name used in logs, manifests and on the command line
func (k Kind) String() string {
	switch k {
	case MotionBlur:
		return "blur"
	case SensorNoise:
		return "sensor"
	case GaussianNoise:
		return "gaussian"
	case Compression:
		return "compress"
	case Resolution:
		return "downscale"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Params holds the parameters drawn for one image. Only the fields that
// belong to Kind are meaningful; the rest stay at their zero value.
type Params struct {
	Kind Kind

	// Motion blur
	Length       float64
	Angle        int
	SecondLength float64
	SecondAngle  int
	DualSegment  bool
	ExposureTime float64

	// Sensor and Gaussian noise
	Gain  float64
	Sigma float64

	// Recompression
	Quality int

	// Resolution loss
	Factor float64
}

// String renders the meaningful fields of p, e.g. "length=5 angle=45"
func (p Params) String() string {
	var b strings.Builder
	switch p.Kind {
	case MotionBlur:
		fmt.Fprintf(&b, "length=%g angle=%d", p.Length, p.Angle)
		if p.DualSegment {
			fmt.Fprintf(&b, " length2=%g angle2=%d", p.SecondLength, p.SecondAngle)
		}
		fmt.Fprintf(&b, " exposure=%g", p.ExposureTime)
	case SensorNoise:
		fmt.Fprintf(&b, "gain=%g sigma=%g", p.Gain, p.Sigma)
	case GaussianNoise:
		fmt.Fprintf(&b, "sigma=%g", p.Sigma)
	case Compression:
		fmt.Fprintf(&b, "quality=%d", p.Quality)
	case Resolution:
		fmt.Fprintf(&b, "factor=%g", p.Factor)
	}
	return b.String()
}

// Job is one source image on its way through the pipeline.
// It is created when the file is picked up and dropped after the write.
type Job struct {
	// Source is the full path of the reference image
	Source string

	// Filename is the base name shared by every destination copy
	Filename string

	// Params are the degradation parameters drawn for this image
	Params Params

	// Destinations are the role directories that receive the output
	Destinations []string
}

// Status is the terminal state of a job
type Status int

const (
	StatusWritten Status = iota
	StatusDecodeFailure
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusDecodeFailure:
		return "decode_failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
