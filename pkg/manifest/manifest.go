// Package manifest records which degradation every file of a run received,
// as a parquet table that training and evaluation code can join on filename.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"imgdegrade/internal/models"
)

// Record is one row of the manifest
type Record struct {
	Filename      string  `parquet:"filename"`
	Kind          string  `parquet:"kind"`
	Status        string  `parquet:"status"`
	Length        float64 `parquet:"length"`
	Angle         int     `parquet:"angle"`
	SecondLength  float64 `parquet:"second_length"`
	SecondAngle   int     `parquet:"second_angle"`
	DualSegment   bool    `parquet:"dual_segment"`
	ExposureTime  float64 `parquet:"exposure_time"`
	Gain          float64 `parquet:"gain"`
	Sigma         float64 `parquet:"sigma"`
	Quality       int     `parquet:"quality"`
	Factor        float64 `parquet:"factor"`
	Destinations  int     `parquet:"destinations"`
	SourceRemoved bool    `parquet:"source_removed"`
}

// NewRecord flattens a finished job
func NewRecord(job models.Job, status models.Status, sourceRemoved bool) Record {
	p := job.Params
	rec := Record{
		Filename:      job.Filename,
		Status:        status.String(),
		SourceRemoved: sourceRemoved,
	}
	if status != models.StatusWritten {
		return rec
	}

	rec.Kind = p.Kind.String()
	rec.Length = p.Length
	rec.Angle = p.Angle
	rec.SecondLength = p.SecondLength
	rec.SecondAngle = p.SecondAngle
	rec.DualSegment = p.DualSegment
	rec.ExposureTime = p.ExposureTime
	rec.Gain = p.Gain
	rec.Sigma = p.Sigma
	rec.Quality = p.Quality
	rec.Factor = p.Factor
	rec.Destinations = len(job.Destinations)
	return rec
}

// Write stores records at path, replacing any existing file
func Write(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}

	writer := parquet.NewGenericWriter[Record](file)
	if _, err := writer.Write(records); err != nil {
		writer.Close()
		file.Close()
		return fmt.Errorf("failed to write manifest rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finish manifest: %w", err)
	}
	return file.Close()
}

// Read loads every record of a manifest
func Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Manifest opened", "path", path, "num_rows", pf.NumRows())

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var records []Record
	rows := make([]Record, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}
