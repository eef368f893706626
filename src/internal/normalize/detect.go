package normalize

import (
	"os"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

// DetectFormat reports the format of the first non-comment line of the file.
// Files without a recognizable line are Unknown.
func DetectFormat(path string) (format.Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return format.Unknown, err
	}
	defer utils.CloseOrWarn(file)

	detected := format.Unknown
	err = scanLines(file, func(line string) bool {
		line = strings.TrimSpace(line)
		if line == "" || isComment(line) {
			return true
		}
		detected = detectLine(line)
		return false
	})
	return detected, err
}

func detectLine(line string) format.Format {
	switch {
	case hostsPattern.MatchString(line):
		return format.Hosts
	case adguardPattern.MatchString(line):
		return format.AdGuard
	case dnsmasqServerPattern.MatchString(line), dnsmasqAddressPattern.MatchString(line):
		return format.Dnsmasq
	case domainPattern.MatchString(line):
		return format.Domains
	}
	return format.Unknown
}

// ExtractInlineAllowlist collects hosts entries that were commented out,
// e.g. "# 0.0.0.0 example.com false positive".
func ExtractInlineAllowlist(path string) (merge.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.CloseOrWarn(file)

	allow := make(merge.Set)
	err = scanLines(file, func(line string) bool {
		if m := inlineAllowPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			allow.Add(m[1])
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return allow, nil
}
