package noise

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"imgdegrade/pkg/raster"
)

// Compression round-trips an image through the JPEG codec at Quality
// (1 to 100). The artifacts are whatever block quantization introduces.
type Compression struct {
	Quality int
}

// Validate checks Quality is in [1,100]
func (c Compression) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("%w: quality %d must be in [1,100]", ErrInvalidParameter, c.Quality)
	}
	return nil
}

// Apply encodes img in memory and decodes it back
func (c Compression) Apply(img *raster.Image) (*raster.Image, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img.ToImage(), &jpeg.Options{Quality: c.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	decoded, err := jpeg.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode jpeg: %w", err)
	}

	out := raster.FromImage(decoded)
	if out.Channels != img.Channels {
		return nil, fmt.Errorf("jpeg round trip changed channel count from %d to %d", img.Channels, out.Channels)
	}
	return out, nil
}
