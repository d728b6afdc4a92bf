package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dataset role prefixes: the reference set and the two degraded roles read
// by the restoration model's data loader
const (
	ReferencePrefix = "hr_"
	LowResPrefix    = "lr_"
	SuperResPrefix  = "sr_"
)

// DiscoverRoles finds the role directories of a dataset: the first hr_*
// directory is the source, every lr_* and sr_* directory is a destination.
// Directories are considered in lexical order.
func DiscoverRoles(datasetDir string) (source string, destinations []string, err error) {
	entries, err := os.ReadDir(datasetDir)
	if err != nil {
		return "", nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, ReferencePrefix):
			if source == "" {
				source = filepath.Join(datasetDir, name)
			}
		case strings.HasPrefix(name, LowResPrefix), strings.HasPrefix(name, SuperResPrefix):
			destinations = append(destinations, filepath.Join(datasetDir, name))
		}
	}

	if source == "" {
		return "", nil, fmt.Errorf("no %s* directory in %s", ReferencePrefix, datasetDir)
	}
	if len(destinations) == 0 {
		return "", nil, fmt.Errorf("no %s* or %s* directories in %s", LowResPrefix, SuperResPrefix, datasetDir)
	}
	return source, destinations, nil
}
