package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/metrics"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
)

// Handler manages all API endpoints and dependencies.
type Handler struct {
	configPath   string
	configHasher *config.ConfigHasher
	metrics      *metrics.Recorder

	// buildMu serializes writers of the output tree, scheduler included.
	buildMu *sync.Mutex
}

// NewHandler creates a new API handler. recorder may be nil. buildMu guards
// the output and source directories; nil gives the handler its own lock.
func NewHandler(configPath string, configHasher *config.ConfigHasher, recorder *metrics.Recorder, buildMu *sync.Mutex) *Handler {
	if buildMu == nil {
		buildMu = &sync.Mutex{}
	}
	return &Handler{
		configPath:   configPath,
		configHasher: configHasher,
		metrics:      recorder,
		buildMu:      buildMu,
	}
}

// loadConfig loads and validates the configuration from disk.
func (h *Handler) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(h.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *Handler) buildOptions(cfg *config.Config, req BuildRequest) (pipeline.Options, error) {
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return opts, err
	}
	opts.DryRun = req.DryRun
	if req.Validate != nil {
		opts.Validate = *req.Validate
	}
	if req.Strict != nil {
		opts.Validation.StrictTLD = *req.Strict
	}
	opts.Metrics = h.metrics
	return opts, nil
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// decodeJSON decodes an optional JSON body; an empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}
