package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"opostudy/internal/study"
)

const defaultQuizSize = 5

// redactQuiz strips answer keys and explanations so the client cannot read
// the solution before grading.
func redactQuiz(q study.Quiz) study.Quiz {
	out := q
	out.Questions = make([]study.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Answer = -1
		question.Explanation = ""
		out.Questions[i] = question
	}
	return out
}

func (h *Handler) HandleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	count := defaultQuizSize
	if raw := r.URL.Query().Get("count"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 20 {
			http.Error(w, "count must be between 1 and 20", http.StatusBadRequest)
			return
		}
		count = v
	}

	quiz, err := h.study.NewQuiz(r.Context(), topic, count)
	if err != nil {
		log.Printf("generate quiz for %s failed: %v", topic.ID, err)
		http.Error(w, "quiz generation failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, redactQuiz(quiz))
}

func (h *Handler) HandleGradeQuiz(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.topicFromRequest(w, chi.URLParam(r, "id")); !ok {
		return
	}
	var in struct {
		QuizID  string `json:"quiz_id"`
		Answers []int  `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if in.QuizID == "" {
		http.Error(w, "quiz_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.study.Grade(r.Context(), in.QuizID, in.Answers)
	if err != nil {
		if errors.Is(err, study.ErrQuizNotFound) {
			http.Error(w, "unknown quiz", http.StatusNotFound)
			return
		}
		log.Printf("grade quiz %s failed: %v", in.QuizID, err)
		http.Error(w, "grading failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
