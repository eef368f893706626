package format

import (
	"path/filepath"
	"strings"
)

var dirFormats = map[string]Format{
	"adguard":         AdGuard,
	"alt-version":     Domains,
	"dnsmasq-version": Dnsmasq,
}

var suffixFormats = []struct {
	suffix string
	format Format
}{
	{"-ags.txt", AdGuard},
	{"-nl.txt", Domains},
	{"-dnsmasq.txt", Dnsmasq},
}

// ForPath infers the format of an output file from the repository layout.
// Files without a parent directory are hosts files. Unknown is returned
// when no convention applies.
func ForPath(path string) Format {
	dir := filepath.Dir(path)
	if f, ok := dirFormats[filepath.Base(dir)]; ok {
		return f
	}

	if dir == "." || dir == filepath.Dir(dir) {
		return Hosts
	}

	name := filepath.Base(path)
	for _, s := range suffixFormats {
		if strings.Contains(name, s.suffix) {
			return s.format
		}
	}
	return Unknown
}
