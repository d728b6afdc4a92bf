package manifest

import (
	"path/filepath"
	"testing"

	"imgdegrade/internal/models"
)

func TestNewRecord(t *testing.T) {
	job := models.Job{
		Filename:     "a.png",
		Destinations: []string{"lr", "sr"},
		Params: models.Params{
			Kind:         models.MotionBlur,
			Length:       5,
			Angle:        45,
			ExposureTime: 1,
		},
	}

	rec := NewRecord(job, models.StatusWritten, false)
	if rec.Kind != "blur" || rec.Length != 5 || rec.Angle != 45 || rec.Destinations != 2 {
		t.Errorf("Unexpected record %+v", rec)
	}
	if rec.Status != "written" {
		t.Errorf("Expected status written, got %q", rec.Status)
	}

	failed := NewRecord(models.Job{Filename: "bad.png"}, models.StatusDecodeFailure, true)
	if failed.Kind != "" || !failed.SourceRemoved || failed.Status != "decode_failure" {
		t.Errorf("Unexpected decode-failure record %+v", failed)
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "manifest.parquet")

	records := make([]Record, 300)
	for i := range records {
		records[i] = Record{
			Filename: filepath.Base(t.Name()) + string(rune('a'+i%26)) + ".png",
			Kind:     "sensor",
			Status:   "written",
			Gain:     float64(i%4 + 1),
			Sigma:    0.5,
			Quality:  i,
		}
	}

	if err := Write(path, records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Fatalf("Record %d: expected %+v, got %+v", i, records[i], got[i])
		}
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Error("Expected an error for a missing manifest")
	}
}
