package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"opostudy/internal/mermaid"
)

func (h *Handler) HandleGenerateMaterial(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "1"

	m, err := h.study.Material(r.Context(), topic, force)
	if err != nil {
		log.Printf("generate material for %s failed: %v", topic.ID, err)
		http.Error(w, "material generation failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) HandleMaterial(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	m, ok := h.study.StoredMaterial(r.Context(), topic.ID)
	if !ok {
		http.Error(w, "no material generated for this topic yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) HandleMaterialGraph(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	m, ok := h.study.StoredMaterial(r.Context(), topic.ID)
	if !ok {
		http.Error(w, "no material generated for this topic yet", http.StatusNotFound)
		return
	}

	idx := mermaid.BuildIndex(m.Diagram)
	nodes := idx.Nodes()
	adjacency := make(map[string]mermaid.Relations, len(nodes))
	for _, id := range nodes {
		adjacency[id] = mermaid.Relations{
			Children: idx.Children(id),
			Parents:  idx.Parents(id),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id":  topic.ID,
		"diagram":   m.Diagram,
		"nodes":     nodes,
		"adjacency": adjacency,
		"labels":    mermaid.Labels(idx, m.Diagram),
		"details":   m.Details,
	})
}

func (h *Handler) HandleMaterialRelated(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	node := strings.TrimSpace(r.URL.Query().Get("node"))
	if node == "" {
		http.Error(w, "node is required", http.StatusBadRequest)
		return
	}
	m, ok := h.study.StoredMaterial(r.Context(), topic.ID)
	if !ok {
		http.Error(w, "no material generated for this topic yet", http.StatusNotFound)
		return
	}

	idx := mermaid.BuildIndex(m.Diagram)
	hl := mermaid.Classify(node, idx)
	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id": topic.ID,
		"target":   hl.Target,
		"related":  hl.Related,
		"others":   hl.Others,
	})
}
