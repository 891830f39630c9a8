// Package study generates per-topic study materials and quizzes by calling
// the generative backend, and grades quiz submissions against stored answer
// keys.
package study

import "time"

// Material is everything the study view needs for one topic. Diagram is
// always repaired Mermaid text; the raw model output never leaves this
// package. Details carries the model's per-node explanations through
// untouched.
type Material struct {
	TopicID     string            `json:"topic_id"`
	Guide       string            `json:"guide"`
	Diagram     string            `json:"diagram"`
	Details     map[string]string `json:"details,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Question is one multiple-choice item. Answer indexes Options.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// Quiz is a generated set of questions, stored server-side so grading can
// trust the answer key.
type Quiz struct {
	ID          string     `json:"id"`
	TopicID     string     `json:"topic_id"`
	Questions   []Question `json:"questions"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Result is the outcome of grading one submission.
type Result struct {
	QuizID  string  `json:"quiz_id"`
	TopicID string  `json:"topic_id"`
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Score   float64 `json:"score"`
	// Missed holds the questions answered wrong, with the given answer.
	Missed []MissedAnswer `json:"missed,omitempty"`
}

// MissedAnswer pairs a question with the wrong option the user picked.
// Given is -1 for unanswered questions.
type MissedAnswer struct {
	Question Question `json:"question"`
	Given    int      `json:"given"`
}
