package study

import (
	"fmt"

	"opostudy/internal/syllabus"
)

const guidePrompt = `Eres un preparador de oposiciones españolas. Para el tema del INPUT JSON
devuelve un único objeto JSON con esta forma exacta:
{
  "guide": "guía de estudio en markdown (500-800 palabras)",
  "diagram": "mapa conceptual en sintaxis mermaid 'graph TD', nodos N1..Nn con etiquetas entre corchetes y comillas",
  "details": {"N1": "explicación breve del nodo", "...": "..."}
}
No añadas texto fuera del JSON.`

const quizPrompt = `Eres un preparador de oposiciones españolas. Para el tema del INPUT JSON
devuelve un único objeto JSON:
{"questions": [{"prompt": "...", "options": ["a","b","c","d"], "answer": 0, "explanation": "..."}]}
Genera exactamente el número de preguntas pedido, tipo test con 4 opciones y una sola correcta.
No añadas texto fuera del JSON.`

type topicInput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Block     string `json:"block,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Questions int    `json:"questions,omitempty"`
}

func guideInput(t syllabus.Topic) topicInput {
	return topicInput{ID: t.ID, Title: t.Title, Block: t.Block, Summary: t.Summary}
}

func quizInput(t syllabus.Topic, n int) topicInput {
	in := guideInput(t)
	in.Questions = n
	return in
}

func materialKey(topicID string) string { return "material/" + topicID }
func quizKey(quizID string) string      { return fmt.Sprintf("quiz/%s", quizID) }
