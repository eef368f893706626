package api

import (
	"net/http"
	"os"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
)

// CheckHealth reports configuration validity and whether the output is stale.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}

	cfg, err := config.LoadConfig(h.configPath)
	if err != nil {
		response.Healthy = false
		response.Checks["config_load"] = CheckResult{
			Passed:  false,
			Message: "Failed to load configuration: " + err.Error(),
		}
		writeJSONData(w, response)
		return
	}

	if err := cfg.ValidateConfig(); err != nil {
		response.Healthy = false
		response.Checks["config_validation"] = CheckResult{
			Passed:  false,
			Message: "Configuration validation failed: " + err.Error(),
		}
	} else {
		response.Checks["config_validation"] = CheckResult{
			Passed:  true,
			Message: "Configuration is valid",
		}
	}

	outputDir := cfg.GetAbsOutputDir()
	if info, err := os.Stat(outputDir); err == nil && info.IsDir() {
		response.Checks["output_dir"] = CheckResult{Passed: true, Message: outputDir}
	} else {
		response.Healthy = false
		response.Checks["output_dir"] = CheckResult{Passed: false, Message: "Output directory does not exist: " + outputDir}
	}

	if h.configHasher != nil {
		if hash, err := h.configHasher.GetCurrentConfigHash(); err == nil {
			response.ConfigHash = hash
		}
		response.BuiltHash = h.configHasher.GetBuiltConfigHash()
		response.Stale = response.ConfigHash != response.BuiltHash
	}

	writeJSONData(w, response)
}
