package validate

import (
	"regexp"
	"slices"
	"strings"

	"github.com/miekg/dns"

	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
)

const (
	suspiciousLength  = 100
	suspiciousHyphens = 5
	suspiciousLabels  = 7
)

var consecutiveDigits = regexp.MustCompile(`\d{10,}`)

// Suspicion flags a domain that looks generated or malformed. It never
// removes the domain from output.
type Suspicion struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// FindSuspicious reports the first matching heuristic for each domain,
// sorted by domain.
func FindSuspicious(domains merge.Set) []Suspicion {
	var result []Suspicion

	for d := range domains {
		if reason := suspicionOf(strings.ToLower(d)); reason != "" {
			result = append(result, Suspicion{Domain: d, Reason: reason})
		}
	}

	slices.SortFunc(result, func(a, b Suspicion) int {
		return strings.Compare(a.Domain, b.Domain)
	})
	return result
}

func suspicionOf(domain string) string {
	switch {
	case len(domain) > suspiciousLength:
		return "Very long domain name"
	case consecutiveDigits.MatchString(domain):
		return "Many consecutive digits"
	case strings.Count(domain, "-") > suspiciousHyphens:
		return "Many hyphens"
	case dns.CountLabel(domain) > suspiciousLabels:
		return "Very deep subdomain nesting"
	}
	return ""
}
