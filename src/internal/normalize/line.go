package normalize

import (
	"regexp"
	"strings"
)

const maxTokenLength = 253

var (
	hostsPattern          = regexp.MustCompile(`^(?:0\.0\.0\.0|127\.0\.0\.1)\s+(.+)$`)
	adguardPattern        = regexp.MustCompile(`^\|\|(.+)\^$`)
	dnsmasqServerPattern  = regexp.MustCompile(`^server=/(.+)/$`)
	dnsmasqAddressPattern = regexp.MustCompile(`^address=/(.+)/(?:0\.0\.0\.0|127\.0\.0\.1|#)?$`)
	domainPattern         = regexp.MustCompile(`^[a-zA-Z0-9_][-a-zA-Z0-9._]*\.[a-zA-Z0-9-]{2,}$`)

	inlineAllowPattern = regexp.MustCompile(`^#\s*0\.0\.0\.0\s+(\S+)`)
)

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!")
}

// Line extracts the lowercase domain of a single line. It returns false for
// blank lines, comments and anything that does not yield a clean token.
func Line(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || isComment(line) {
		return "", false
	}

	var captured string
	if m := hostsPattern.FindStringSubmatch(line); m != nil {
		// trailing aliases and comments are ignored
		captured = strings.Fields(m[1])[0]
	} else if m := adguardPattern.FindStringSubmatch(line); m != nil {
		captured = m[1]
	} else if m := dnsmasqServerPattern.FindStringSubmatch(line); m != nil {
		captured = m[1]
	} else if m := dnsmasqAddressPattern.FindStringSubmatch(line); m != nil {
		captured = m[1]
	} else if domainPattern.MatchString(line) {
		captured = line
	} else {
		return "", false
	}

	domain := strings.ToLower(strings.TrimSpace(captured))
	if !isToken(domain) {
		return "", false
	}
	return domain, true
}

func isToken(s string) bool {
	if s == "" || len(s) > maxTokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || '0' <= c && c <= '9' || c == '.' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}
