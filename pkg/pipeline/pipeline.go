// Package pipeline runs one degradation over a directory of reference images
// and writes each result, under the source file name, to every destination
// role directory.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/rand"

	"imgdegrade/internal/models"
	"imgdegrade/pkg/manifest"
	"imgdegrade/pkg/raster"
)

// DecodeFailurePolicy decides what happens to a source file that cannot be
// decoded
type DecodeFailurePolicy int

const (
	// DeleteUnreadable removes the unreadable file from the source directory
	DeleteUnreadable DecodeFailurePolicy = iota

	// KeepUnreadable leaves the file where it is
	KeepUnreadable
)

func (p DecodeFailurePolicy) String() string {
	switch p {
	case DeleteUnreadable:
		return "delete"
	case KeepUnreadable:
		return "keep"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseDecodeFailurePolicy accepts "delete" or "keep"; empty means delete
func ParseDecodeFailurePolicy(s string) (DecodeFailurePolicy, error) {
	switch s {
	case "", "delete":
		return DeleteUnreadable, nil
	case "keep":
		return KeepUnreadable, nil
	default:
		return 0, fmt.Errorf("unknown decode failure policy %q (want delete or keep)", s)
	}
}

// Params holds the run configuration
type Params struct {
	// InputDir holds the reference images. Only regular files directly
	// inside it are processed.
	InputDir string

	// Destinations receive one copy of every degraded image
	Destinations []string

	// Seed drives parameter selection
	Seed uint64

	// NoiseSeed drives the stochastic noise models. Zero seeds from the clock.
	NoiseSeed uint64

	OnDecodeFailure DecodeFailurePolicy

	// JPEGQuality is used when an output is written as JPEG.
	// Zero selects raster.DefaultJPEGQuality.
	JPEGQuality int

	// ManifestPath, when set, receives a parquet record per processed file
	ManifestPath string
}

// Outcome is the terminal state of one source file
type Outcome struct {
	Job    models.Job
	Status models.Status

	// Removed is set when an unreadable source was deleted
	Removed bool

	// Err is the decode error for StatusDecodeFailure
	Err error
}

// Report summarizes a run
type Report struct {
	Processed int
	Outcomes  []Outcome
}

// Written counts the files that reached every destination
func (r *Report) Written() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == models.StatusWritten {
			n++
		}
	}
	return n
}

// DecodeFailures returns the outcomes of unreadable files
func (r *Report) DecodeFailures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == models.StatusDecodeFailure {
			out = append(out, o)
		}
	}
	return out
}

// Pipeline degrades every image of InputDir with parameters drawn from its
// candidates
type Pipeline struct {
	params     *Params
	candidates Candidates
	rng        *RandomSource
	noiseSrc   rand.Source
}

// New validates the parameters and candidates and returns a ready pipeline
func New(params *Params, candidates Candidates) (*Pipeline, error) {
	if params == nil || candidates == nil {
		return nil, fmt.Errorf("pipeline needs params and candidates")
	}
	if err := candidates.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s candidates: %w", candidates.Kind(), err)
	}
	if params.InputDir == "" {
		return nil, fmt.Errorf("no input directory")
	}
	if len(params.Destinations) == 0 {
		return nil, fmt.Errorf("no destination directories")
	}
	if params.JPEGQuality < 0 || params.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality %d outside [0,100]", params.JPEGQuality)
	}

	input, err := filepath.Abs(params.InputDir)
	if err != nil {
		return nil, err
	}
	for _, dest := range params.Destinations {
		abs, err := filepath.Abs(dest)
		if err != nil {
			return nil, err
		}
		if abs == input {
			return nil, fmt.Errorf("destination %s is the input directory", dest)
		}
	}

	noiseSeed := params.NoiseSeed
	if noiseSeed == 0 {
		noiseSeed = uint64(time.Now().UnixNano())
	}

	return &Pipeline{
		params:     params,
		candidates: candidates,
		rng:        NewRandomSource(params.Seed),
		noiseSrc:   rand.NewSource(noiseSeed),
	}, nil
}

// Process degrades every source file in lexical order. Unreadable files are
// reported and handled per OnDecodeFailure; a file that cannot be written to
// every destination stops the run with a *PersistError.
func (p *Pipeline) Process() (*Report, error) {
	files, err := p.sourceFiles()
	if err != nil {
		return nil, err
	}

	slog.Info("Processing images",
		"input", p.params.InputDir,
		"files", len(files),
		"kind", p.candidates.Kind(),
		"destinations", len(p.params.Destinations))

	report := &Report{}
	for _, name := range files {
		outcome, err := p.processFile(name)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		report.Processed++
	}

	if p.params.ManifestPath != "" {
		records := make([]manifest.Record, len(report.Outcomes))
		for i, o := range report.Outcomes {
			records[i] = manifest.NewRecord(o.Job, o.Status, o.Removed)
		}
		if err := manifest.Write(p.params.ManifestPath, records); err != nil {
			return report, err
		}
		slog.Debug("Manifest written", "path", p.params.ManifestPath, "records", len(records))
	}

	slog.Info("Processing complete",
		"processed", report.Processed,
		"written", report.Written(),
		"unreadable", len(report.DecodeFailures()))
	return report, nil
}

// sourceFiles lists the regular files of InputDir, sorted by name.
// Symlinks are followed.
func (p *Pipeline) sourceFiles() ([]string, error) {
	entries, err := os.ReadDir(p.params.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(filepath.Join(p.params.InputDir, entry.Name()))
		if err == nil && info.Mode().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

func (p *Pipeline) processFile(name string) (Outcome, error) {
	job := models.Job{
		Source:       filepath.Join(p.params.InputDir, name),
		Filename:     name,
		Destinations: p.params.Destinations,
	}

	img, format, err := raster.DecodeFile(job.Source)
	if err != nil {
		return p.decodeFailure(job, err), nil
	}

	job.Params = p.candidates.Draw(p.rng)
	slog.Debug("Degrading image", "file", name, "kind", job.Params.Kind, "params", job.Params.String(), "shape", img.String())

	synth, err := NewSynthesizer(job.Params, p.noiseSrc)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", name, err)
	}
	out, err := synth.Apply(img)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", name, err)
	}
	if job.Params.Kind == models.MotionBlur {
		out = out.MinMaxNormalize()
	}

	data, err := raster.EncodeBytes(out, raster.FormatForName(name, format), raster.EncodeOptions{JPEGQuality: p.params.JPEGQuality})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := Persist(data, name, job.Destinations); err != nil {
		slog.Error("Failed to persist image", "file", name, "error", err)
		return Outcome{}, err
	}

	return Outcome{Job: job, Status: models.StatusWritten}, nil
}

func (p *Pipeline) decodeFailure(job models.Job, decodeErr error) Outcome {
	outcome := Outcome{Job: job, Status: models.StatusDecodeFailure, Err: decodeErr}

	if p.params.OnDecodeFailure == DeleteUnreadable {
		if err := os.Remove(job.Source); err != nil {
			slog.Warn("Failed to remove unreadable image", "file", job.Filename, "error", err)
		} else {
			outcome.Removed = true
		}
	}

	slog.Warn("Skipping unreadable image", "file", job.Filename, "error", decodeErr, "removed", outcome.Removed)
	return outcome
}
