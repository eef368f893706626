package format

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/blocklistproject/blocklist-builder/src/internal/errors"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

const (
	DefaultHomepage   = "https://github.com/blocklistproject/Lists"
	DefaultLicense    = "MIT"
	DefaultMaintainer = "The Block List Project"

	timestampLayout = "2006-01-02 15:04:05 UTC"
)

// Metadata describes the header of a rendered list.
// Empty Homepage, License and Maintainer fall back to the project defaults.
type Metadata struct {
	Title       string
	Description string
	URL         string
	Homepage    string
	License     string
	Maintainer  string

	// Now overrides the "Last modified" clock.
	Now func() time.Time
}

func (m Metadata) withDefaults() Metadata {
	if m.Title == "" {
		m.Title = "Block List"
	}
	if m.Description == "" {
		m.Description = "Domain blocklist"
	}
	if m.Homepage == "" {
		m.Homepage = DefaultHomepage
	}
	if m.License == "" {
		m.License = DefaultLicense
	}
	if m.Maintainer == "" {
		m.Maintainer = DefaultMaintainer
	}
	if m.Now == nil {
		m.Now = time.Now
	}
	return m
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. 12,345.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// headerValue keeps a metadata value on a single comment line.
func headerValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func header(f Format, count int, meta Metadata) []string {
	c := f.CommentMarker()
	homepage := headerValue(meta.Homepage)
	return []string{
		c + " Title: " + headerValue(meta.Title),
		c + " Description: " + headerValue(meta.Description),
		c + " Homepage: " + homepage,
		c + " License: " + headerValue(meta.License),
		c + " Last modified: " + meta.Now().UTC().Format(timestampLayout),
		c + " Format: " + f.DisplayName(),
		c + " Entries: " + FormatCount(count),
		c + " URL: " + headerValue(meta.URL),
		c,
		c + " This list is maintained by " + headerValue(meta.Maintainer),
		c + " " + homepage,
		c,
		"",
	}
}

// Render produces the complete file content for domains, which should already be sorted.
func Render(domains []string, f Format, meta Metadata) (string, error) {
	if !f.Valid() {
		return "", errors.NewFormatError("cannot render format "+f.String(), nil)
	}
	meta = meta.withDefaults()

	var b strings.Builder
	for _, line := range header(f, len(domains), meta) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, domain := range domains {
		b.WriteString(f.Line(domain))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Write renders domains into path, creating parent directories and
// replacing any existing file. It returns the number of domains written.
func Write(domains []string, path string, f Format, meta Metadata) (int, error) {
	content, err := Render(domains, f, meta)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, errors.NewFormatError("failed to create output directory for "+path, err)
	}
	if err := utils.WriteFileAtomic(path, []byte(content), 0644); err != nil {
		return 0, errors.NewFormatError("failed to write "+path, err)
	}
	return len(domains), nil
}
