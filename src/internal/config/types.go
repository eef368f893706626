package config

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

const (
	StatusStable     = "stable"
	StatusBeta       = "beta"
	StatusDeprecated = "deprecated"
)

type Config struct {
	// Settings holds project metadata and build defaults.
	Settings *Settings `toml:"settings" yaml:"settings" json:"settings"`
	// Lists contains the list definitions in build order.
	Lists ListDefinitions `toml:"list,omitempty" yaml:"lists" json:"lists"`
	// Formats maps a format name (hosts, domains, adguard, dnsmasq) to its output definition.
	// Formats missing from a non-empty table are not built.
	Formats map[string]*FormatDefinition `toml:"formats,omitempty" yaml:"formats" json:"formats"`

	_absConfigFilePath string
}

type Settings struct {
	// Homepage is written to the header of every list.
	Homepage string `toml:"homepage" yaml:"homepage" json:"homepage" validate:"omitempty,single_line,url"`
	// License is written to the header of every list.
	License string `toml:"license" yaml:"license" json:"license" validate:"single_line"`
	// Maintainer is written to the maintainer block of the header.
	Maintainer string `toml:"maintainer" yaml:"maintainer" json:"maintainer" validate:"single_line"`
	// SourceDir holds the source files named {list}.txt (default: output_dir).
	SourceDir string `toml:"source_dir" yaml:"source_dir" json:"source_dir"`
	// OutputDir is the base directory for generated files (default: directory of the config file).
	OutputDir string `toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	// AllowlistFile lists domains excluded from every list (optional).
	AllowlistFile string `toml:"allowlist_file" yaml:"allowlist_file" json:"allowlist_file,omitempty"`
	// CriticalDomainsFile extends the built-in set of domains that are never blocked (optional).
	CriticalDomainsFile string `toml:"critical_domains_file" yaml:"critical_domains_file" json:"critical_domains_file,omitempty"`
	// StrictTLD accepts only TLDs from the reference table.
	StrictTLD bool `toml:"strict_tld" yaml:"strict_tld" json:"strict_tld"`
	// CollapseThreshold replaces groups of at least this many sibling subdomains with their parent (0 = disabled).
	CollapseThreshold int `toml:"collapse_threshold" yaml:"collapse_threshold" json:"collapse_threshold" validate:"gte=0"`
	// Concurrency is the number of lists built in parallel (default: 1).
	Concurrency int `toml:"concurrency" yaml:"concurrency" json:"concurrency" validate:"gte=1,lte=64"`
}

type ListDefinition struct {
	// Name is the list identifier used in file names.
	Name string `toml:"name" yaml:"name" json:"name" validate:"required,list_name"`
	// Title is the header title (default: "<Name> Block List").
	Title string `toml:"title,omitempty" yaml:"title" json:"title,omitempty" validate:"single_line"`
	// Description is the header description (default: "Domains blocked for <name>").
	Description string `toml:"description,omitempty" yaml:"description" json:"description,omitempty" validate:"single_line"`
	// Status is one of stable, beta or deprecated. Only stable and beta lists are built by default.
	Status string `toml:"status" yaml:"status" json:"status" validate:"required,list_status"`
	// Categories are informational tags.
	Categories []string `toml:"categories,omitempty" yaml:"categories" json:"categories,omitempty"`
	// SourceURL is an upstream file downloaded by the fetch command (optional).
	SourceURL string `toml:"source_url,omitempty" yaml:"source_url" json:"source_url,omitempty" validate:"omitempty,url"`
}

type FormatDefinition struct {
	// OutputDir is relative to the output directory; "." or empty means the root.
	OutputDir string `toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	// Extension is appended to the list name, e.g. "-ags.txt".
	Extension string `toml:"extension" yaml:"extension" json:"extension" validate:"required"`
	// URLTemplate is the public URL of a list. Available variables: {name}.
	URLTemplate string `toml:"url_template,omitempty" yaml:"url_template" json:"url_template,omitempty" validate:"omitempty,single_line,url_template"`
	// PathTemplate overrides output_dir and extension. Available variables: {name}, {output_dir}, {extension}.
	PathTemplate string `toml:"path_template,omitempty" yaml:"path_template" json:"path_template,omitempty" validate:"omitempty,path_template"`

	// Prefix, Suffix and CommentChar document the line shape; when set they must match the format.
	Prefix      string `toml:"prefix,omitempty" yaml:"prefix" json:"prefix,omitempty"`
	Suffix      string `toml:"suffix,omitempty" yaml:"suffix" json:"suffix,omitempty"`
	CommentChar string `toml:"comment_char,omitempty" yaml:"comment_char" json:"comment_char,omitempty"`
}

// ListDefinitions keeps list definitions in configuration order.
type ListDefinitions []*ListDefinition

// UnmarshalYAML accepts a sequence of definitions or a mapping keyed by list name.
func (l *ListDefinitions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var items []*ListDefinition
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"lists must be a sequence or a mapping"}}
	}

	result := make(ListDefinitions, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		def := &ListDefinition{}
		if err := node.Content[i+1].Decode(def); err != nil {
			return err
		}
		def.Name = node.Content[i].Value
		result = append(result, def)
	}
	*l = result
	return nil
}

var titleCaser = cases.Title(language.English)

// DisplayTitle returns the configured title or "<Name> Block List".
func (l *ListDefinition) DisplayTitle() string {
	if l.Title != "" {
		return l.Title
	}
	return titleCaser.String(l.Name) + " Block List"
}

// DisplayDescription returns the configured description or "Domains blocked for <name>".
func (l *ListDefinition) DisplayDescription() string {
	if l.Description != "" {
		return l.Description
	}
	return "Domains blocked for " + l.Name
}

// IsDefaultBuild reports whether the list is built when no names are given.
func (l *ListDefinition) IsDefaultBuild() bool {
	return l.Status == StatusStable || l.Status == StatusBeta
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

func (c *Config) GetConfigFilePath() string {
	return c._absConfigFilePath
}

func (c *Config) GetAbsOutputDir() string {
	return utils.GetAbsolutePath(c.Settings.OutputDir, c.GetConfigDir())
}

func (c *Config) GetAbsSourceDir() string {
	if c.Settings.SourceDir == "" {
		return c.GetAbsOutputDir()
	}
	return utils.GetAbsolutePath(c.Settings.SourceDir, c.GetConfigDir())
}

func (c *Config) GetAbsAllowlistPath() string {
	return utils.ResolveOptionalPath(c.Settings.AllowlistFile, c.GetConfigDir())
}

func (c *Config) GetAbsCriticalDomainsPath() string {
	return utils.ResolveOptionalPath(c.Settings.CriticalDomainsFile, c.GetConfigDir())
}

// GetList returns the definition named name.
func (c *Config) GetList(name string) (*ListDefinition, bool) {
	for _, l := range c.Lists {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// ListNames returns list names in configuration order, optionally filtered by status.
func (c *Config) ListNames(statuses ...string) []string {
	names := make([]string, 0, len(c.Lists))
	for _, l := range c.Lists {
		if len(statuses) == 0 || containsString(statuses, l.Status) {
			names = append(names, l.Name)
		}
	}
	return names
}

// DefaultBuildNames returns the stable and beta lists.
func (c *Config) DefaultBuildNames() []string {
	return c.ListNames(StatusStable, StatusBeta)
}

// GetFormat returns the definition of f, or false when f is not built.
func (c *Config) GetFormat(f format.Format) (*FormatDefinition, bool) {
	def, ok := c.Formats[f.String()]
	return def, ok && def != nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
