package pipeline

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

type TLDCount struct {
	TLD   string `json:"tld"`
	Count int    `json:"count"`
}

// ListStats describes the published hosts file of one list.
type ListStats struct {
	Name    string     `json:"name"`
	Status  string     `json:"status"`
	Built   bool       `json:"built"`
	Domains int        `json:"domains"`
	TopTLDs []TLDCount `json:"top_tlds,omitempty"`
}

// CollectStats reads the hosts output of every configured list, sorted by
// name. Lists without output are reported with Built=false.
func CollectStats(cfg *config.Config, baseDir string, topTLDs int) ([]ListStats, error) {
	hostsDef, ok := cfg.GetFormat(format.Hosts)
	if !ok {
		hostsDef = config.DefaultFormats()[format.Hosts.String()]
	}

	stats := make([]ListStats, 0, len(cfg.Lists))
	for _, list := range cfg.Lists {
		s := ListStats{Name: list.Name, Status: list.Status}

		path := OutputPath(baseDir, list.Name, hostsDef)
		if utils.FileExists(path) {
			domains, err := normalize.ParseFile(path)
			if err != nil {
				return nil, err
			}
			s.Built = true
			s.Domains = domains.Len()
			s.TopTLDs = TopTLDs(domains, topTLDs)
		}
		stats = append(stats, s)
	}

	slices.SortFunc(stats, func(a, b ListStats) int {
		return strings.Compare(a.Name, b.Name)
	})
	return stats, nil
}

// TopTLDs returns the n most frequent TLDs, ties broken by name.
func TopTLDs(domains merge.Set, n int) []TLDCount {
	if n <= 0 {
		return nil
	}

	counts := merge.CountByTLD(domains)
	result := make([]TLDCount, 0, len(counts))
	for tld, count := range counts {
		result = append(result, TLDCount{TLD: tld, Count: count})
	}
	slices.SortFunc(result, func(a, b TLDCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.TLD, b.TLD)
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}

// PublishedFiles maps each configured format to the output file of name, relative to the output directory.
func PublishedFiles(cfg *config.Config, name string) map[format.Format]string {
	files := make(map[format.Format]string)
	for _, f := range format.All() {
		if def, ok := cfg.GetFormat(f); ok {
			files[f] = filepath.ToSlash(def.RelativePath(name))
		}
	}
	return files
}
