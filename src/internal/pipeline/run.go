package pipeline

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/errors"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
)

// PipelineResult aggregates a run over several lists.
type PipelineResult struct {
	TotalLists int            `json:"total_lists"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Results    []*BuildResult `json:"results"`
	Errors     []string       `json:"errors"`
}

// TotalDomains sums the domain counts of all successful builds.
func (r *PipelineResult) TotalDomains() int {
	total := 0
	for _, res := range r.Results {
		total += res.DomainCount
	}
	return total
}

// TotalValidationErrors sums the rejections of all successful builds.
func (r *PipelineResult) TotalValidationErrors() int {
	total := 0
	for _, res := range r.Results {
		total += res.ValidationErrors
	}
	return total
}

// Run builds names, or every stable and beta list when names is empty.
// A failing list is recorded as "<name>: <error>" and does not stop the others.
// Results keep the order of names.
func Run(cfg *config.Config, names []string, opts Options) *PipelineResult {
	if len(names) == 0 {
		names = cfg.DefaultBuildNames()
	}

	results := make([]*BuildResult, len(names))
	failures := make([]error, len(names))

	var g errgroup.Group
	g.SetLimit(opts.concurrency())

	for i, name := range names {
		g.Go(func() error {
			results[i], failures[i] = buildSafely(cfg, name, opts)
			return nil
		})
	}
	_ = g.Wait()

	pipelineResult := &PipelineResult{
		TotalLists: len(names),
		Results:    make([]*BuildResult, 0, len(names)),
		Errors:     []string{},
	}
	for i, name := range names {
		if failures[i] != nil {
			pipelineResult.Failed++
			pipelineResult.Errors = append(pipelineResult.Errors, fmt.Sprintf("%s: %v", name, failures[i]))
			opts.Metrics.RecordFailure(name)
			log.Errorf("Failed to build list %s: %v", name, failures[i])
			continue
		}
		pipelineResult.Successful++
		pipelineResult.Results = append(pipelineResult.Results, results[i])
	}

	opts.Metrics.MarkRun(opts.now())
	return pipelineResult
}

func buildSafely(cfg *config.Config, name string, opts Options) (result *BuildResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.NewBuildError(fmt.Sprintf("panic while building %s", name),
				errors.NewInternalError(fmt.Sprint(r), nil))
		}
	}()

	// each list reads its own source
	opts.SourcePath = ""
	return BuildList(cfg, name, opts)
}
