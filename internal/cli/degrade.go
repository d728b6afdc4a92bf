package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"imgdegrade/pkg/config"
	"imgdegrade/pkg/pipeline"
	"imgdegrade/pkg/raster"
)

// runFlags are shared by every degradation command
type runFlags struct {
	dataset         string
	input           string
	destinations    []string
	seed            uint64
	noiseSeed       uint64
	onDecodeFailure string
	jpegQuality     int
	manifest        string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "Dataset directory: reads hr_* and writes every lr_* and sr_* subdirectory")
	cmd.Flags().StringVar(&f.input, "input", "", "Directory of reference images")
	cmd.Flags().StringArrayVar(&f.destinations, "dest", nil, "Destination directory (repeatable)")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "Seed for parameter selection")
	cmd.Flags().Uint64Var(&f.noiseSeed, "noise-seed", 0, "Seed for noise draws (0 seeds from the clock)")
	cmd.Flags().StringVar(&f.onDecodeFailure, "on-decode-failure", "delete", "What to do with unreadable sources (delete or keep)")
	cmd.Flags().IntVar(&f.jpegQuality, "jpeg-quality", raster.DefaultJPEGQuality, "Quality for outputs written as JPEG")
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "Write a parquet manifest of the chosen parameters")
}

// apply copies the flags the user set over the config values
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("seed") {
		cfg.Pipeline.Seed = f.seed
	}
	if cmd.Flags().Changed("noise-seed") {
		cfg.Pipeline.NoiseSeed = f.noiseSeed
	}
	if cmd.Flags().Changed("on-decode-failure") {
		cfg.Pipeline.OnDecodeFailure = f.onDecodeFailure
	}
	if cmd.Flags().Changed("jpeg-quality") {
		cfg.Pipeline.JPEGQuality = f.jpegQuality
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Pipeline.Manifest = f.manifest
	}
}

func (f *runFlags) directories() (string, []string, error) {
	switch {
	case f.dataset != "" && (f.input != "" || len(f.destinations) > 0):
		return "", nil, fmt.Errorf("--dataset cannot be combined with --input or --dest")
	case f.dataset != "":
		return pipeline.DiscoverRoles(f.dataset)
	case f.input == "":
		return "", nil, fmt.Errorf("either --dataset or --input is required")
	case len(f.destinations) == 0:
		return "", nil, fmt.Errorf("at least one --dest is required with --input")
	}
	return f.input, f.destinations, nil
}

// runPipeline degrades the selected directories with candidates
func runPipeline(cmd *cobra.Command, cfg *config.Config, run *runFlags, candidates func(*config.Config) pipeline.Candidates) error {
	run.apply(cmd, cfg)
	if err := cfg.ValidatePipeline(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	input, destinations, err := run.directories()
	if err != nil {
		return err
	}

	params, err := cfg.PipelineParams(input, destinations)
	if err != nil {
		return err
	}

	p, err := pipeline.New(params, candidates(cfg))
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := p.Process()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d files in %.2fs: %d written to %d destinations, %d unreadable\n",
		report.Processed, time.Since(start).Seconds(), report.Written(), len(destinations), len(report.DecodeFailures()))
	for _, o := range report.DecodeFailures() {
		action := "kept"
		if o.Removed {
			action = "removed"
		}
		fmt.Fprintf(out, "  %s: %v (%s)\n", o.Job.Filename, o.Err, action)
	}
	return nil
}

func newBlurCmd(opts *rootOptions) *cobra.Command {
	var run runFlags
	var lengths, secondLengths []float64
	var angles, secondAngles []int
	var exposure float64
	var singleSegment bool

	cmd := &cobra.Command{
		Use:   "blur",
		Short: "Apply frequency-domain motion blur",
		Long: `Blur every reference image along a straight (or two-segment) motion path.

The length and angle are drawn per image from the candidate lists. The path
has two segments, the second drawn from its own lists; the default second
segment has zero length. --single-segment drops it. Blurred images are
stretched to the full 8-bit range before they are written.`,
		Example: `  # Blur a dataset with lengths 0 or 5 and angles 0 or 45
  imgdegrade blur --dataset ./div2k --lengths 0,5 --angles 0,45

  # Explicit directories, one straight segment per image
  imgdegrade blur --input hr --dest lr --dest sr --single-segment`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("lengths") {
				cfg.Motion.Lengths = lengths
			}
			if cmd.Flags().Changed("angles") {
				cfg.Motion.Angles = angles
			}
			if cmd.Flags().Changed("second-lengths") {
				cfg.Motion.SecondLengths = secondLengths
			}
			if cmd.Flags().Changed("second-angles") {
				cfg.Motion.SecondAngles = secondAngles
			}
			if cmd.Flags().Changed("exposure") {
				cfg.Motion.ExposureTime = exposure
			}
			if singleSegment {
				if cmd.Flags().Changed("second-lengths") || cmd.Flags().Changed("second-angles") {
					return fmt.Errorf("--single-segment cannot be combined with --second-lengths or --second-angles")
				}
				cfg.Motion.SecondLengths = nil
				cfg.Motion.SecondAngles = nil
			}
			return runPipeline(cmd, cfg, &run, func(c *config.Config) pipeline.Candidates { return c.MotionCandidates() })
		},
	}

	run.register(cmd)
	cmd.Flags().Float64SliceVar(&lengths, "lengths", nil, "Candidate blur lengths in pixels")
	cmd.Flags().IntSliceVar(&angles, "angles", nil, "Candidate blur angles in degrees [0,360)")
	cmd.Flags().Float64SliceVar(&secondLengths, "second-lengths", nil, "Candidate lengths of a second segment")
	cmd.Flags().IntSliceVar(&secondAngles, "second-angles", nil, "Candidate angles of a second segment")
	cmd.Flags().Float64Var(&exposure, "exposure", 1.0, "Exposure time")
	cmd.Flags().BoolVar(&singleSegment, "single-segment", false, "Blur along one segment instead of two")

	return cmd
}

func newNoiseCmd(opts *rootOptions) *cobra.Command {
	var run runFlags
	var sigmas []float64

	cmd := &cobra.Command{
		Use:   "noise",
		Short: "Add zero-mean Gaussian noise",
		Long: `Add signal-independent Gaussian noise with a standard deviation drawn per
image, clamped to [0,255].`,
		Example: `  imgdegrade noise --dataset ./div2k --sigmas 5,10,25`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("sigmas") {
				cfg.Gaussian.Sigmas = sigmas
			}
			return runPipeline(cmd, cfg, &run, func(c *config.Config) pipeline.Candidates { return c.GaussianCandidates() })
		},
	}

	run.register(cmd)
	cmd.Flags().Float64SliceVar(&sigmas, "sigmas", nil, "Candidate noise standard deviations")

	return cmd
}

func newSensorCmd(opts *rootOptions) *cobra.Command {
	var run runFlags
	var gains, sigmas []float64

	cmd := &cobra.Command{
		Use:   "sensor",
		Short: "Add Poisson-Gaussian sensor noise",
		Long: `Model a photon-counting sensor: the intensity divided by the gain is drawn
from a Poisson distribution, scaled back, and Gaussian read noise is added.
A sigma of 0 gives pure shot noise.`,
		Example: `  imgdegrade sensor --input hr --dest lr --gains 1,2 --sigmas 0,3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("gains") {
				cfg.Sensor.Gains = gains
			}
			if cmd.Flags().Changed("sigmas") {
				cfg.Sensor.Sigmas = sigmas
			}
			return runPipeline(cmd, cfg, &run, func(c *config.Config) pipeline.Candidates { return c.SensorCandidates() })
		},
	}

	run.register(cmd)
	cmd.Flags().Float64SliceVar(&gains, "gains", nil, "Candidate conversion gains")
	cmd.Flags().Float64SliceVar(&sigmas, "sigmas", nil, "Candidate read-noise standard deviations")

	return cmd
}

func newCompressCmd(opts *rootOptions) *cobra.Command {
	var run runFlags
	var qualities []int

	cmd := &cobra.Command{
		Use:     "compress",
		Short:   "Introduce JPEG compression artifacts",
		Long:    `Round-trip every image through an in-memory JPEG at a quality drawn per image.`,
		Example: `  imgdegrade compress --dataset ./div2k --qualities 10,30,50`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("qualities") {
				cfg.Compression.Qualities = qualities
			}
			return runPipeline(cmd, cfg, &run, func(c *config.Config) pipeline.Candidates { return c.CompressionCandidates() })
		},
	}

	run.register(cmd)
	cmd.Flags().IntSliceVar(&qualities, "qualities", nil, "Candidate JPEG qualities [1,100]")

	return cmd
}

func newDownscaleCmd(opts *rootOptions) *cobra.Command {
	var run runFlags
	var factors []float64

	cmd := &cobra.Command{
		Use:     "downscale",
		Short:   "Lose resolution by bicubic downscaling and upscaling",
		Long:    `Shrink every image by a factor drawn per image and scale it back to its original size.`,
		Example: `  imgdegrade downscale --dataset ./div2k --factors 2,4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("factors") {
				cfg.Resolution.Factors = factors
			}
			return runPipeline(cmd, cfg, &run, func(c *config.Config) pipeline.Candidates { return c.ResolutionCandidates() })
		},
	}

	run.register(cmd)
	cmd.Flags().Float64SliceVar(&factors, "factors", nil, "Candidate downscale factors (>= 1)")

	return cmd
}
