package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) HandleAllProgress(w http.ResponseWriter, r *http.Request) {
	all, err := h.study.Tracker().All(r.Context())
	if err != nil {
		log.Printf("list progress failed: %v", err)
		http.Error(w, "progress unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": all})
}

func (h *Handler) HandleTopicProgress(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	p, err := h.study.Tracker().Topic(r.Context(), topic.ID)
	if err != nil {
		log.Printf("progress for %s failed: %v", topic.ID, err)
		http.Error(w, "progress unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleMissed(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	missed, err := h.study.Tracker().Missed(r.Context(), topic.ID)
	if err != nil {
		log.Printf("missed for %s failed: %v", topic.ID, err)
		http.Error(w, "progress unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id": topic.ID,
		"missed":   missed,
	})
}

func (h *Handler) HandleResetProgress(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := h.study.Tracker().Reset(r.Context(), topic.ID); err != nil {
		log.Printf("reset progress for %s failed: %v", topic.ID, err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
