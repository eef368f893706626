package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/errors"
	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
	"github.com/blocklistproject/blocklist-builder/src/internal/metrics"
	"github.com/blocklistproject/blocklist-builder/src/internal/validate"
)

type Options struct {
	// BaseDir is the root of the output tree.
	BaseDir string
	// SourceDir holds {name}.txt sources (default: BaseDir).
	SourceDir string
	// SourcePath overrides the source file of a single build.
	SourcePath string
	// AllowlistPath lists domains removed from every list (optional).
	AllowlistPath string

	Validate   bool
	DryRun     bool
	Validation validate.Options
	// Policy replaces the built-in validation tables (optional).
	Policy *validate.Policy

	// CollapseThreshold enables subdomain collapsing when positive.
	CollapseThreshold int
	// Concurrency bounds parallel list builds in Run (default: 1).
	Concurrency int

	Now     func() time.Time
	Metrics *metrics.Recorder
}

// OptionsFromConfig derives build options from the configuration settings.
// Validation is enabled; callers may switch it off.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	validation := validate.DefaultOptions()
	validation.StrictTLD = cfg.Settings.StrictTLD

	opts := Options{
		BaseDir:           cfg.GetAbsOutputDir(),
		SourceDir:         cfg.GetAbsSourceDir(),
		AllowlistPath:     cfg.GetAbsAllowlistPath(),
		Validate:          true,
		Validation:        validation,
		CollapseThreshold: cfg.Settings.CollapseThreshold,
		Concurrency:       cfg.Settings.Concurrency,
	}

	if path := cfg.GetAbsCriticalDomainsPath(); path != "" {
		extra, err := validate.LoadCriticalDomains(path)
		if err != nil {
			return opts, errors.NewConfigError("failed to load critical domains from "+path, err)
		}
		var invalid []string
		for _, domain := range merge.Sort(extra) {
			if !validate.IsValidSyntax(domain) {
				invalid = append(invalid, domain)
			}
		}
		if len(invalid) > 0 {
			return opts, errors.NewValidationError(
				fmt.Sprintf("invalid critical domains in %s: %s", path, strings.Join(invalid, ", ")), nil)
		}
		opts.Policy = validate.DefaultPolicy().WithCritical(extra)
	}

	return opts, nil
}

func (o Options) sourceDir() string {
	if o.SourceDir != "" {
		return o.SourceDir
	}
	return o.BaseDir
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) concurrency() int {
	if o.Concurrency < 1 {
		return 1
	}
	return o.Concurrency
}
