package format

import (
	"fmt"
	"strings"
)

// Format identifies a blocklist representation.
type Format int

const (
	Unknown Format = iota
	Hosts
	Domains
	AdGuard
	Dnsmasq
)

var names = map[Format]string{
	Unknown: "unknown",
	Hosts:   "hosts",
	Domains: "domains",
	AdGuard: "adguard",
	Dnsmasq: "dnsmasq",
}

// All returns the real formats in build order.
func All() []Format {
	return []Format{Hosts, Domains, AdGuard, Dnsmasq}
}

// Names returns the names of the real formats in build order.
func Names() []string {
	all := All()
	result := make([]string, len(all))
	for i, f := range all {
		result[i] = f.String()
	}
	return result
}

// Parse resolves a format by its name. Unknown names return an error.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hosts":
		return Hosts, nil
	case "domains":
		return Domains, nil
	case "adguard":
		return AdGuard, nil
	case "dnsmasq":
		return Dnsmasq, nil
	}
	return Unknown, fmt.Errorf("unknown format '%s', valid: %s", name, strings.Join(Names(), ", "))
}

// Valid reports whether f is one of the formats returned by All.
func (f Format) Valid() bool {
	_, ok := names[f]
	return ok && f != Unknown
}

func (f Format) String() string {
	if name, ok := names[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// DisplayName is the value of the "Format" header field.
func (f Format) DisplayName() string {
	if f == AdGuard {
		return "AdGuard"
	}
	return f.String()
}

// CommentMarker returns the prefix of comment lines.
func (f Format) CommentMarker() string {
	if f == AdGuard {
		return "!"
	}
	return "#"
}

// Line renders a single domain entry.
func (f Format) Line(domain string) string {
	switch f {
	case Hosts:
		return "0.0.0.0 " + domain
	case Domains:
		return domain
	case AdGuard:
		return "||" + domain + "^"
	case Dnsmasq:
		return "server=/" + domain + "/"
	}
	return ""
}

// MarshalText lets formats be used as JSON keys and TOML values.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
