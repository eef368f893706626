package merge

import (
	"iter"
	"slices"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

// Deduplicate lowercases domains and collapses duplicates.
func Deduplicate(domains iter.Seq[string]) Set {
	s := make(Set)
	for d := range domains {
		s.Add(d)
	}
	return s
}

// Union returns every domain present in at least one of the sets.
func Union(sets ...Set) Set {
	size := 0
	for _, s := range sets {
		size += len(s)
	}

	result := make(Set, size)
	for _, s := range sets {
		for d := range s {
			result.Add(d)
		}
	}
	return result
}

// ApplyAllowlist returns domains minus the lowercased allowlist.
func ApplyAllowlist(domains Set, allow Set) Set {
	result := make(Set, len(domains))
	for d := range domains {
		if !allow.Has(d) {
			result.Add(d)
		}
	}
	return result
}

// Sort returns the domains in ascending lexicographic order.
func Sort(domains Set) []string {
	sorted := domains.Slice()
	slices.Sort(sorted)
	return sorted
}

// RemoveSubdomainsOf drops parent and every domain below it.
func RemoveSubdomainsOf(domains Set, parent string) Set {
	parent = strings.ToLower(parent)

	result := make(Set, len(domains))
	for d := range domains {
		if !utils.MatchDomain(d, parent) {
			result.Add(d)
		}
	}
	return result
}

// GetSubdomainsOf returns the domains strictly below parent; parent itself is excluded.
func GetSubdomainsOf(domains Set, parent string) Set {
	parent = strings.ToLower(parent)

	result := make(Set)
	for d := range domains {
		if utils.IsStrictSubdomain(strings.ToLower(d), parent) {
			result.Add(d)
		}
	}
	return result
}

// CollapseSubdomains groups domains by their rightmost two labels and replaces
// every group with at least threshold members by the bare parent.
// A non-positive threshold returns an unchanged copy.
func CollapseSubdomains(domains Set, threshold int) Set {
	if threshold <= 0 {
		return domains.Clone()
	}

	groups := make(map[string]int)
	for d := range domains {
		groups[utils.LastLabels(strings.ToLower(d), 2)]++
	}

	result := make(Set, len(domains))
	for d := range domains {
		parent := utils.LastLabels(strings.ToLower(d), 2)
		if groups[parent] >= threshold {
			result.Add(parent)
		} else {
			result.Add(d)
		}
	}
	return result
}

// CountByTLD counts domains per last label. Single-label entries are skipped.
func CountByTLD(domains Set) map[string]int {
	counts := make(map[string]int)
	for d := range domains {
		idx := strings.LastIndexByte(d, '.')
		if idx < 0 {
			continue
		}
		counts[strings.ToLower(d[idx+1:])]++
	}
	return counts
}
