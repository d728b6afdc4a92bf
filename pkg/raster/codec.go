package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Supported output formats, named as image.Decode reports them
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// DefaultJPEGQuality is used when EncodeOptions leaves JPEGQuality at zero.
// It matches the quality most imaging libraries save with by default.
const DefaultJPEGQuality = 75

// EncodeOptions tunes the lossy encoders
type EncodeOptions struct {
	JPEGQuality int
}

// DecodeFile reads and decodes an image file. The returned format is the
// name of the codec that recognised the data.
func DecodeFile(path string) (*Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	return Decode(file)
}

// Decode decodes PNG, JPEG, GIF, BMP or TIFF data
func Decode(r io.Reader) (*Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return FromImage(img), format, nil
}

// FormatForName picks the output format from a file extension, or returns
// fallback when the extension is not one we can encode
func FormatForName(name, fallback string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".gif":
		return FormatGIF
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	}
	switch fallback {
	case FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF:
		return fallback
	}
	return FormatPNG
}

// Encode writes m in the given format
func Encode(w io.Writer, m *Image, format string, opts EncodeOptions) error {
	img := m.ToImage()
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// EncodeBytes is Encode into a fresh buffer
func EncodeBytes(m *Image, format string, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
