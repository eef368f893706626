package merge

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Set is a set of canonical lowercase domains.
type Set map[string]struct{}

// NewSet returns a set containing the given domains, lowercased.
func NewSet(domains ...string) Set {
	s := make(Set, len(domains))
	for _, d := range domains {
		s.Add(d)
	}
	return s
}

// Add inserts domain in lowercase form.
func (s Set) Add(domain string) {
	s[strings.ToLower(domain)] = struct{}{}
}

// Has reports whether domain (case-insensitively) is in the set.
func (s Set) Has(domain string) bool {
	_, ok := s[strings.ToLower(domain)]
	return ok
}

// Len returns the number of domains.
func (s Set) Len() int {
	return len(s)
}

// All iterates over the domains in unspecified order.
func (s Set) All() iter.Seq[string] {
	return maps.Keys(s)
}

// Slice returns the domains in unspecified order.
func (s Set) Slice() []string {
	return slices.Collect(maps.Keys(s))
}

// Clone returns a shallow copy.
func (s Set) Clone() Set {
	return maps.Clone(s)
}

// Equal reports whether both sets contain the same domains.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for d := range s {
		if _, ok := other[d]; !ok {
			return false
		}
	}
	return true
}
