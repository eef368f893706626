package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
)

// BuildAll builds every stable and beta list.
// POST /api/v1/build
func (h *Handler) BuildAll(w http.ResponseWriter, r *http.Request) {
	h.build(w, r, nil)
}

// BuildList builds a single configured list.
// POST /api/v1/build/{name}
func (h *Handler) BuildList(w http.ResponseWriter, r *http.Request) {
	h.build(w, r, []string{chi.URLParam(r, "name")})
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request, names []string) {
	var req BuildRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	cfg, err := h.loadConfig()
	if err != nil {
		writeConfigError(w, err)
		return
	}
	for _, name := range names {
		if _, ok := cfg.GetList(name); !ok {
			WriteNotFound(w, "List '"+name+"'")
			return
		}
	}

	opts, err := h.buildOptions(cfg, req)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	h.buildMu.Lock()
	result := pipeline.Run(cfg, names, opts)
	if !req.DryRun && result.Failed == 0 && h.configHasher != nil {
		if hash, err := h.configHasher.UpdateCurrentConfigHash(); err != nil {
			log.Warnf("Failed to update config hash after build: %v", err)
		} else {
			h.configHasher.SetBuiltConfigHash(hash)
		}
	}
	h.buildMu.Unlock()

	response := BuildResponse{
		PipelineResult:        result,
		TotalDomains:          result.TotalDomains(),
		TotalValidationErrors: result.TotalValidationErrors(),
	}
	if result.Failed > 0 {
		WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeBuildFailed, "Some lists failed to build").
			WithDetails(map[string]interface{}{"errors": result.Errors}))
		return
	}
	writeJSONData(w, response)
}

// Verify compares entry counts across the published formats.
// GET /api/v1/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loadConfig()
	if err != nil {
		writeConfigError(w, err)
		return
	}

	mismatches, err := pipeline.VerifyOutputConsistency(cfg.GetAbsOutputDir(), cfg.Formats)
	if err != nil {
		WriteInternalError(w, err.Error())
		return
	}
	h.metrics.SetMismatches(len(mismatches))

	if mismatches == nil {
		mismatches = []pipeline.Mismatch{}
	}
	writeJSONData(w, VerifyResponse{
		Consistent: len(mismatches) == 0,
		Mismatches: mismatches,
	})
}
