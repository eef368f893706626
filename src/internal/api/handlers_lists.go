package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

// GetLists returns all configured lists.
// GET /api/v1/lists
func (h *Handler) GetLists(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loadConfig()
	if err != nil {
		writeConfigError(w, err)
		return
	}

	lists := make([]*ListInfo, 0, len(cfg.Lists))
	for _, list := range cfg.Lists {
		lists = append(lists, listInfo(cfg, list))
	}

	writeJSONData(w, ListsResponse{Lists: lists})
}

// GetList returns a single list.
// GET /api/v1/lists/{name}
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	cfg, err := h.loadConfig()
	if err != nil {
		writeConfigError(w, err)
		return
	}

	list, ok := cfg.GetList(name)
	if !ok {
		WriteNotFound(w, "List '"+name+"'")
		return
	}

	writeJSONData(w, listInfo(cfg, list))
}

func listInfo(cfg *config.Config, list *config.ListDefinition) *ListInfo {
	info := &ListInfo{
		Name:        list.Name,
		Title:       list.DisplayTitle(),
		Description: list.DisplayDescription(),
		Status:      list.Status,
		Categories:  list.Categories,
		SourceURL:   list.SourceURL,
		Files:       make(map[string]string),
		URLs:        make(map[string]string),
	}
	if info.Categories == nil {
		info.Categories = []string{}
	}

	for f, path := range pipeline.PublishedFiles(cfg, list.Name) {
		info.Files[f.String()] = path
		if def, ok := cfg.GetFormat(f); ok {
			if url := def.URL(list.Name); url != "" {
				info.URLs[f.String()] = url
			}
		}
	}

	if def, ok := cfg.GetFormat(format.Hosts); ok {
		hostsPath := pipeline.OutputPath(cfg.GetAbsOutputDir(), list.Name, def)
		if utils.FileExists(hostsPath) {
			if domains, err := normalize.ParseFile(hostsPath); err == nil {
				count := domains.Len()
				info.Built = true
				info.Domains = &count
			}
		}
	}

	return info
}
