package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	services "geoplot-server/service"
)

const PROJECT_QUERY_ARG = "project"

type AssetHandler struct {
	chartService   *services.ChartService
	defaultProject string
}

func NewAssetHandler(chartService *services.ChartService, defaultProject string) *AssetHandler {
	return &AssetHandler{
		chartService:   chartService,
		defaultProject: defaultProject,
	}
}

// GetAssetFolders handles GET /v1/assets: the project's top-level asset
// folders, sorted by id. The configured project applies when the query
// names none.
func (h *AssetHandler) GetAssetFolders(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get(PROJECT_QUERY_ARG)
	if project == "" {
		project = h.defaultProject
	}
	if project == "" {
		http.Error(w, "Missing argument "+PROJECT_QUERY_ARG, http.StatusBadRequest)
		return
	}

	folders, err := h.chartService.AssetFolders(project)
	if err != nil {
		log.Println("Error loading asset folders:", err)
		http.Error(w, "Upstream computation error", http.StatusBadGateway)
		return
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].ID < folders[j].ID
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(folders); err != nil {
		log.Println("Error encoding response:", err)
	}
}
