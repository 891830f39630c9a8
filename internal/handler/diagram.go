package handler

import (
	"encoding/json"
	"net/http"

	"opostudy/internal/mermaid"
)

// HandleRepairDiagram repairs arbitrary diagram text and returns the result
// with its adjacency index. Debug endpoint; the study flow repairs diagrams
// before they are stored, so clients normally never need this.
func (h *Handler) HandleRepairDiagram(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	repaired := mermaid.Repair(in.Source)
	idx := mermaid.BuildIndex(repaired)
	nodes := idx.Nodes()
	adjacency := make(map[string]mermaid.Relations, len(nodes))
	for _, id := range nodes {
		adjacency[id] = mermaid.Relations{
			Children: idx.Children(id),
			Parents:  idx.Parents(id),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"repaired":  repaired,
		"nodes":     nodes,
		"adjacency": adjacency,
		"labels":    mermaid.Labels(idx, repaired),
	})
}
