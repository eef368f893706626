package api

import (
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ListInfo describes a configured list and its published files.
type ListInfo struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Categories  []string          `json:"categories"`
	SourceURL   string            `json:"source_url,omitempty"`
	Files       map[string]string `json:"files"`
	URLs        map[string]string `json:"urls"`
	Built       bool              `json:"built"`
	Domains     *int              `json:"domains"` // null until built
}

// ListsResponse returns all lists in the configuration.
type ListsResponse struct {
	Lists []*ListInfo `json:"lists"`
}

// BuildRequest overrides build options for one request. The body is optional.
type BuildRequest struct {
	DryRun   bool  `json:"dry_run"`
	Validate *bool `json:"validate,omitempty"`
	Strict   *bool `json:"strict,omitempty"`
}

// BuildResponse returns the result of a build.
type BuildResponse struct {
	*pipeline.PipelineResult
	TotalDomains          int `json:"total_domains"`
	TotalValidationErrors int `json:"total_validation_errors"`
}

// VerifyResponse returns the result of a consistency check.
type VerifyResponse struct {
	Consistent bool                `json:"consistent"`
	Mismatches []pipeline.Mismatch `json:"mismatches"`
}

// HealthCheckResponse returns health check results.
type HealthCheckResponse struct {
	Healthy    bool                   `json:"healthy"`
	Checks     map[string]CheckResult `json:"checks"`
	ConfigHash string                 `json:"config_hash,omitempty"`
	BuiltHash  string                 `json:"built_hash,omitempty"`
	// Stale is set when the configuration or a source changed since the last build.
	Stale bool `json:"stale"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}
