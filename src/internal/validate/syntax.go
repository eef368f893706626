package validate

import (
	"regexp"
	"strings"

	"github.com/miekg/dns"

	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
)

const maxDomainLength = 253

// Leading underscore is allowed for DKIM/DMARC-style names; the TLD may carry
// digits and hyphens for punycode.
var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9_][-a-zA-Z0-9._]*\.[a-zA-Z0-9-]{2,}$`)

// IsValidSyntax checks the structure of a domain name: at least two labels,
// each 1-63 characters without a leading or trailing hyphen, at most 253
// characters in total.
func IsValidSyntax(domain string) bool {
	if len(domain) > maxDomainLength {
		return false
	}
	// rejects empty labels and labels over 63 octets
	labels, ok := dns.IsDomainName(domain)
	if !ok || labels < 2 {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return domainPattern.MatchString(domain)
}

// HasValidTLD checks the last label of domain against the built-in TLD table.
func HasValidTLD(domain string, strict bool) bool {
	return hasValidTLD(domain, strict, builtinTLDs)
}

// HasValidTLD checks the last label of domain. Punycode TLDs always pass.
// In strict mode the TLD must be present in p.TLDs; otherwise any
// alphanumeric label of at least two characters is accepted.
func (p *Policy) HasValidTLD(domain string, strict bool) bool {
	return hasValidTLD(domain, strict, p.TLDs)
}

func hasValidTLD(domain string, strict bool, tlds merge.Set) bool {
	idx := strings.LastIndexByte(domain, '.')
	if idx < 0 {
		return false
	}
	tld := strings.ToLower(domain[idx+1:])

	if strings.HasPrefix(tld, "xn--") {
		return true
	}
	if strict {
		return tlds.Has(tld)
	}
	return len(tld) >= 2 && isAlnum(tld)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return false
		}
	}
	return true
}
