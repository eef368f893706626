package utils

import "strings"

// MatchDomain reports whether domain equals parent or lies below it.
// Matching is by whole labels and ignores case, so "example.com" matches
// "cdn.example.com" but not "badexample.com".
func MatchDomain(domain, parent string) bool {
	domain = strings.ToLower(domain)
	parent = strings.ToLower(parent)

	return domain == parent || strings.HasSuffix(domain, "."+parent)
}

// IsStrictSubdomain reports whether domain is below parent (parent itself excluded).
// Both arguments must already be lowercase.
func IsStrictSubdomain(domain, parent string) bool {
	return len(domain) > len(parent)+1 && strings.HasSuffix(domain, "."+parent)
}

// LastLabels returns the rightmost n labels of domain joined by dots.
// Domains with n or fewer labels are returned unchanged.
func LastLabels(domain string, n int) string {
	idx := len(domain)
	for i := 0; i < n; i++ {
		idx = strings.LastIndexByte(domain[:idx], '.')
		if idx < 0 {
			return domain
		}
	}
	return domain[idx+1:]
}
