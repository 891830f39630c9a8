package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opostudy/internal/artifact"
)

// exportStamp names exports down to the nanosecond so repeated exports of
// the same topic never overwrite each other.
func exportStamp(t time.Time) string {
	return t.UTC().Format("20060102T150405.000000000")
}

// HandleExport snapshots a topic's generated material and progress into the
// artifact store, one JSON object per file under the topic's prefix.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if h.artifacts == nil {
		http.Error(w, "artifact store not configured", http.StatusServiceUnavailable)
		return
	}
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	m, ok := h.study.StoredMaterial(r.Context(), topic.ID)
	if !ok {
		http.Error(w, "no material generated for this topic yet", http.StatusNotFound)
		return
	}

	names := make([]string, 0, 2)

	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	name := "material-" + exportStamp(time.Now()) + ".json"
	if err := h.artifacts.Put(r.Context(), topic.ID, name, payload); err != nil {
		log.Printf("export material for %s failed: %v", topic.ID, err)
		http.Error(w, "export failed", http.StatusBadGateway)
		return
	}
	names = append(names, name)

	if p, err := h.study.Tracker().Topic(r.Context(), topic.ID); err == nil && p.QuizzesTaken > 0 {
		raw, err := json.MarshalIndent(p, "", "  ")
		if err == nil {
			progressName := "progress-" + exportStamp(time.Now()) + ".json"
			if err := h.artifacts.Put(r.Context(), topic.ID, progressName, raw); err != nil {
				log.Printf("export progress for %s failed: %v", topic.ID, err)
			} else {
				names = append(names, progressName)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id":  topic.ID,
		"artifacts": names,
	})
}

// HandleExportGet returns one exported artifact verbatim.
func (h *Handler) HandleExportGet(w http.ResponseWriter, r *http.Request) {
	if h.artifacts == nil {
		http.Error(w, "artifact store not configured", http.StatusServiceUnavailable)
		return
	}
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	content, err := h.artifacts.Get(r.Context(), topic.ID, name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			http.Error(w, "unknown artifact", http.StatusNotFound)
			return
		}
		log.Printf("get artifact %s/%s failed: %v", topic.ID, name, err)
		http.Error(w, "artifact store unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(content)
}

// HandleExportList lists the exported artifact names for a topic.
func (h *Handler) HandleExportList(w http.ResponseWriter, r *http.Request) {
	if h.artifacts == nil {
		http.Error(w, "artifact store not configured", http.StatusServiceUnavailable)
		return
	}
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	names, err := h.artifacts.List(r.Context(), topic.ID)
	if err != nil {
		log.Printf("list artifacts for %s failed: %v", topic.ID, err)
		http.Error(w, "artifact store unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id":  topic.ID,
		"artifacts": names,
	})
}
