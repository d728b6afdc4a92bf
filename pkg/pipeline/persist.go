package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// PersistError reports the destinations that did not receive a file.
// Destinations listed in Written hold the new bytes; the others keep
// whatever they had before.
type PersistError struct {
	Filename string
	Written  []string
	Failed   map[string]error
}

func (e *PersistError) Error() string {
	dirs := make([]string, 0, len(e.Failed))
	for dir := range e.Failed {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	parts := make([]string, len(dirs))
	for i, dir := range dirs {
		parts[i] = fmt.Sprintf("%s: %v", dir, e.Failed[dir])
	}
	return fmt.Sprintf("failed to write %s to %d of %d destinations (%s)",
		e.Filename, len(e.Failed), len(e.Failed)+len(e.Written), strings.Join(parts, "; "))
}

func (e *PersistError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}

// Persist writes data as filename into every destination directory, creating
// directories as needed.
//
// Each destination is written through a temporary file and a rename, so a
// single copy is never left half-written. The set as a whole is not atomic:
// every destination is attempted, and when some fail the returned
// *PersistError says which ones did and did not receive the data.
func Persist(data []byte, filename string, destinations []string) error {
	perr := &PersistError{Filename: filename, Failed: make(map[string]error)}

	for _, dir := range destinations {
		if err := writeFile(dir, filename, data); err != nil {
			perr.Failed[dir] = err
			continue
		}
		perr.Written = append(perr.Written, dir)
	}

	if len(perr.Failed) > 0 {
		return perr
	}
	return nil
}

// writeFile replaces dir/filename with data
func writeFile(dir, filename string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filename, uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmp, filepath.Join(dir, filename)); err != nil {
		return errors.Join(fmt.Errorf("failed to move file into place: %w", err), os.Remove(tmp))
	}
	return nil
}
