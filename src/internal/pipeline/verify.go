package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/errors"
	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

// Mismatch is a list whose output formats disagree in entry count.
type Mismatch struct {
	Name   string                `json:"name"`
	Counts map[format.Format]int `json:"counts"`
}

func (m Mismatch) String() string {
	parts := make([]string, 0, len(m.Counts))
	for _, f := range format.All() {
		if n, ok := m.Counts[f]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", f, n))
		}
	}
	return fmt.Sprintf("%s: inconsistent counts: %s", m.Name, strings.Join(parts, ", "))
}

// VerifyOutputConsistency recounts every root list file of baseDir in all
// formats that exist on disk. Format definitions default to the repository
// layout when formats is empty. Mismatches are sorted by list name.
func VerifyOutputConsistency(baseDir string, formats map[string]*config.FormatDefinition) ([]Mismatch, error) {
	if len(formats) == 0 {
		formats = config.DefaultFormats()
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, errors.NewConsistencyError("failed to read output directory "+baseDir, err)
	}

	var mismatches []Mismatch
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || strings.HasPrefix(fileName, ".") || filepath.Ext(fileName) != ".txt" {
			continue
		}
		name := strings.TrimSuffix(fileName, ".txt")

		counts, err := countFormats(baseDir, name, formats)
		if err != nil {
			return nil, errors.NewConsistencyError("failed to count entries of "+name, err)
		}
		if !allEqual(counts) {
			mismatches = append(mismatches, Mismatch{Name: name, Counts: counts})
		}
	}

	slices.SortFunc(mismatches, func(a, b Mismatch) int {
		return strings.Compare(a.Name, b.Name)
	})
	return mismatches, nil
}

func countFormats(baseDir, name string, formats map[string]*config.FormatDefinition) (map[format.Format]int, error) {
	counts := make(map[format.Format]int)

	rootSet, err := normalize.ParseFile(filepath.Join(baseDir, name+".txt"))
	if err != nil {
		return nil, err
	}
	counts[format.Hosts] = rootSet.Len()

	for _, f := range format.All() {
		if f == format.Hosts {
			continue
		}
		def, ok := formats[f.String()]
		if !ok || def == nil {
			continue
		}

		path := OutputPath(baseDir, name, def)
		if !utils.FileExists(path) {
			continue
		}
		set, err := normalize.ParseFile(path)
		if err != nil {
			return nil, err
		}
		counts[f] = set.Len()
	}
	return counts, nil
}

func allEqual(counts map[format.Format]int) bool {
	first := -1
	for _, n := range counts {
		if first < 0 {
			first = n
		} else if n != first {
			return false
		}
	}
	return true
}
