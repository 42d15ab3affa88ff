package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"geoplot-server/models"
	services "geoplot-server/service"
)

const STATE_QUERY_ARG = "state"

type TaskHandler struct {
	chartService *services.ChartService
}

func NewTaskHandler(chartService *services.ChartService) *TaskHandler {
	return &TaskHandler{chartService: chartService}
}

// GetTasks handles GET /v1/tasks: the flattened task list, newest first,
// optionally filtered by state.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	// 1) Load the operations snapshot
	ops, err := h.chartService.Operations()
	if err != nil {
		log.Println("Error loading operations:", err)
		http.Error(w, "Upstream computation error", http.StatusBadGateway)
		return
	}

	// 2) Sort newest first, filter, flatten
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Metadata.StartTime.After(ops[j].Metadata.StartTime)
	})
	state := r.URL.Query().Get(STATE_QUERY_ARG)
	summaries := make([]models.OperationSummary, 0, len(ops))
	for _, op := range ops {
		if state != "" && op.Metadata.State != state {
			continue
		}
		summaries = append(summaries, op.Summary())
	}

	// 3) Write JSON
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		log.Println("Error encoding response:", err)
	}
}
