package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/errors"
	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/hashing"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
	"github.com/blocklistproject/blocklist-builder/src/internal/validate"
)

// BuildResult describes one list build.
type BuildResult struct {
	Name string `json:"name"`
	// DomainCount is the number of domains written to every format.
	DomainCount int `json:"domain_count"`
	// ValidationErrors is the number of domains rejected by validation.
	ValidationErrors int                      `json:"validation_errors"`
	Rejected         []validate.Rejection     `json:"rejected,omitempty"`
	OutputFiles      map[format.Format]string `json:"output_files"`
	// Checksum is the MD5 of the sorted domains, one per line.
	Checksum string        `json:"checksum"`
	Duration time.Duration `json:"duration"`
}

// OutputPath returns the file of list name for a format definition.
func OutputPath(baseDir, name string, def *config.FormatDefinition) string {
	return filepath.Join(baseDir, def.RelativePath(name))
}

// SourcePath returns the default source file of list name.
func SourcePath(sourceDir, name string) string {
	return filepath.Join(sourceDir, name+".txt")
}

// BuildList builds list name in every format configured in cfg.
// Lists missing from cfg are built with default metadata.
func BuildList(cfg *config.Config, name string, opts Options) (*BuildResult, error) {
	start := time.Now()

	list, ok := cfg.GetList(name)
	if !ok {
		list = &config.ListDefinition{Name: name}
	}

	sourcePath := opts.SourcePath
	if sourcePath == "" {
		sourcePath = SourcePath(opts.sourceDir(), name)
	}

	domains, err := readSource(sourcePath)
	if err != nil {
		return nil, errors.NewBuildError(fmt.Sprintf("failed to read source of %s", name), err)
	}

	if opts.AllowlistPath != "" && utils.FileExists(opts.AllowlistPath) {
		allow, err := normalize.ParseFile(opts.AllowlistPath)
		if err != nil {
			return nil, errors.NewBuildError("failed to read allowlist "+opts.AllowlistPath, err)
		}
		domains = merge.ApplyAllowlist(domains, allow)
	}

	result := &BuildResult{
		Name:        name,
		OutputFiles: make(map[format.Format]string),
	}

	if opts.Validate && domains.Len() > 0 {
		validator := validate.New(opts.Validation, opts.Policy)
		valid, rejected := validator.ValidateSet(domains)
		domains = valid
		result.Rejected = rejected
		result.ValidationErrors = len(rejected)
		recordRejections(opts, name, rejected)
	}

	if opts.CollapseThreshold > 0 {
		before := domains.Len()
		domains = merge.CollapseSubdomains(domains, opts.CollapseThreshold)
		log.Debugf("Collapsed %s from %d to %d domains", name, before, domains.Len())
	}

	sorted := merge.Sort(domains)
	result.DomainCount = len(sorted)
	result.Checksum = hashing.DomainChecksum(sorted)

	settings := cfg.Settings
	if settings == nil {
		settings = &config.Settings{}
	}

	for _, f := range format.All() {
		def, ok := cfg.GetFormat(f)
		if !ok {
			continue
		}

		outputPath := OutputPath(opts.BaseDir, name, def)
		if !opts.DryRun {
			meta := format.Metadata{
				Title:       list.DisplayTitle(),
				Description: list.DisplayDescription(),
				URL:         def.URL(name),
				Homepage:    settings.Homepage,
				License:     settings.License,
				Maintainer:  settings.Maintainer,
				Now:         opts.now,
			}
			if _, err := format.Write(sorted, outputPath, f, meta); err != nil {
				return nil, errors.NewBuildError(fmt.Sprintf("failed to write %s output of %s", f, name), err)
			}
		}
		result.OutputFiles[f] = outputPath
	}

	result.Duration = time.Since(start)
	opts.Metrics.ObserveBuild(name, result.Duration, result.DomainCount)

	log.Infof("Built list %s: %d domains, %d rejected", name, result.DomainCount, result.ValidationErrors)
	return result, nil
}

// readSource parses the source and removes its inline allowlist.
// A missing source yields an empty set.
func readSource(path string) (merge.Set, error) {
	if !utils.FileExists(path) {
		log.Debugf("Source file %s does not exist, building an empty list", path)
		return make(merge.Set), nil
	}

	domains, err := normalize.ParseFile(path)
	if err != nil {
		return nil, err
	}

	inline, err := normalize.ExtractInlineAllowlist(path)
	if err != nil {
		return nil, err
	}
	if inline.Len() > 0 {
		log.Debugf("Removing %d inline allowlist entries from %s", inline.Len(), path)
		domains = merge.ApplyAllowlist(domains, inline)
	}
	return domains, nil
}

func recordRejections(opts Options, name string, rejected []validate.Rejection) {
	byReason := make(map[validate.Reason]int)
	for _, r := range rejected {
		byReason[r.Reason]++
		log.Debugf("Rejected %s from %s: %s", r.Domain, name, r.Reason)
	}
	for reason, n := range byReason {
		opts.Metrics.AddRejections(name, reason.String(), n)
	}
}
