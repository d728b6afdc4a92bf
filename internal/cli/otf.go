package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"imgdegrade/pkg/motionblur"
	"imgdegrade/pkg/pipeline"
	"imgdegrade/pkg/raster"
	"imgdegrade/pkg/visualization"
)

func newOTFCmd() *cobra.Command {
	var rows, cols int
	var length, secondLength, exposure float64
	var angle, secondAngle int
	var imagePath, outputDir, prefix string
	var centered bool

	cmd := &cobra.Command{
		Use:   "otf",
		Short: "Render the transfer function of a motion blur",
		Long: `Render the magnitude, phase and real part of a motion-blur transfer
function as images.

The transfer function is evaluated on the zero-padded mesh of a rows x cols
image. With --image the size comes from that image, and the blurred image is
written next to the spectra.`,
		Example: `  imgdegrade otf --length 9 --angle 30 --centered --output-dir spectra
  imgdegrade otf --image hr/0001.png --length 5 --angle 45 --second-length 5 --second-angle 135`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			segments := []motionblur.Segment{{Length: length, Angle: angle}}
			if cmd.Flags().Changed("second-length") || cmd.Flags().Changed("second-angle") {
				segments = append(segments, motionblur.Segment{Length: secondLength, Angle: secondAngle})
			}
			path, err := motionblur.NewPath(exposure, segments...)
			if err != nil {
				return err
			}

			var h motionblur.OTF
			if imagePath != "" {
				img, format, err := raster.DecodeFile(imagePath)
				if err != nil {
					return fmt.Errorf("failed to decode %s: %w", imagePath, err)
				}
				blurred, otf, err := motionblur.Blur{Path: path}.ApplyWithOTF(img)
				if err != nil {
					return err
				}
				h = otf

				name := prefix + "_blurred" + filepath.Ext(imagePath)
				data, err := raster.EncodeBytes(blurred.MinMaxNormalize(), raster.FormatForName(name, format), raster.EncodeOptions{})
				if err != nil {
					return err
				}
				if err := writeOutput(outputDir, name, data); err != nil {
					return err
				}
				slog.Debug("Blurred image written", "file", filepath.Join(outputDir, name), "shape", img.String())
			} else {
				if rows <= 0 || cols <= 0 {
					return fmt.Errorf("--rows and --cols must be positive")
				}
				M, N := motionblur.PaddedSize(rows, cols)
				h = motionblur.BuildOTF(M, N, path)
			}

			viewer := visualization.NewViewer(h, centered)
			if err := viewer.SaveSpectrumSet(outputDir, prefix); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %dx%d spectra to %s\n", h.Rows, h.Cols, outputDir)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 256, "Image height the transfer function is built for")
	cmd.Flags().IntVar(&cols, "cols", 256, "Image width the transfer function is built for")
	cmd.Flags().StringVar(&imagePath, "image", "", "Take the size from this image and also write it blurred")
	cmd.Flags().Float64Var(&length, "length", 5, "Blur length in pixels")
	cmd.Flags().IntVar(&angle, "angle", 0, "Blur angle in degrees [0,360)")
	cmd.Flags().Float64Var(&secondLength, "second-length", 0, "Length of a second segment")
	cmd.Flags().IntVar(&secondAngle, "second-angle", 0, "Angle of a second segment")
	cmd.Flags().Float64Var(&exposure, "exposure", 1.0, "Exposure time")
	cmd.Flags().BoolVar(&centered, "centered", false, "Draw the zero frequency in the middle")
	cmd.Flags().StringVar(&outputDir, "output-dir", "spectra", "Directory for the rendered images")
	cmd.Flags().StringVar(&prefix, "prefix", "otf", "File name prefix")

	return cmd
}

// writeOutput stores one file through the same write path as the pipeline
func writeOutput(dir, name string, data []byte) error {
	return pipeline.Persist(data, name, []string{dir})
}
