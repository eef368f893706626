package config

import (
	"github.com/blocklistproject/blocklist-builder/src/internal/format"
)

const defaultPagesURL = "https://blocklistproject.github.io/Lists/"

// DefaultFormats returns the repository layout used when no formats are configured.
func DefaultFormats() map[string]*FormatDefinition {
	return map[string]*FormatDefinition{
		format.Hosts.String(): {
			OutputDir:   ".",
			Extension:   ".txt",
			URLTemplate: defaultPagesURL + "{name}.txt",
		},
		format.Domains.String(): {
			OutputDir:   "alt-version",
			Extension:   "-nl.txt",
			URLTemplate: defaultPagesURL + "alt-version/{name}-nl.txt",
		},
		format.AdGuard.String(): {
			OutputDir:   "adguard",
			Extension:   "-ags.txt",
			URLTemplate: defaultPagesURL + "adguard/{name}-ags.txt",
		},
		format.Dnsmasq.String(): {
			OutputDir:   "dnsmasq-version",
			Extension:   "-dnsmasq.txt",
			URLTemplate: defaultPagesURL + "dnsmasq-version/{name}-dnsmasq.txt",
		},
	}
}

// ApplyDefaults fills unset settings and formats.
func (c *Config) ApplyDefaults() {
	if c.Settings == nil {
		c.Settings = &Settings{}
	}
	if c.Settings.OutputDir == "" {
		c.Settings.OutputDir = "."
	}
	if c.Settings.Homepage == "" {
		c.Settings.Homepage = format.DefaultHomepage
	}
	if c.Settings.License == "" {
		c.Settings.License = format.DefaultLicense
	}
	if c.Settings.Maintainer == "" {
		c.Settings.Maintainer = format.DefaultMaintainer
	}
	if c.Settings.Concurrency == 0 {
		c.Settings.Concurrency = 1
	}

	if len(c.Formats) == 0 {
		c.Formats = DefaultFormats()
		return
	}
	for _, def := range c.Formats {
		if def == nil {
			continue
		}
		if def.OutputDir == "" {
			def.OutputDir = "."
		}
		if def.Extension == "" {
			def.Extension = ".txt"
		}
	}
}
