package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic payloads per request kind for offline use
// and tests. The diagram it emits is intentionally sloppy (code fence, fused
// classDef) so the repair pipeline downstream has something to do.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var obj any
	switch KindFrom(ctx) {
	case KindGuide:
		obj = map[string]any{
			"guide": "## Resumen\n\nGuía de estudio generada en modo offline. " +
				"Repasa los conceptos clave y consulta el esquema adjunto.",
			"diagram": "```mermaid\ngraph TD\nN1[\"Tema\"]:::main --> N2[\"Concepto (clave)\"]:::subclassDef main fill:#e3f2fd;\nN1 --> N3[\"Desarrollo\"]\n```",
			"details": map[string]string{
				"N1": "Idea central del tema.",
				"N2": "Primer concepto que suele caer en examen.",
				"N3": "Desarrollo normativo y jurisprudencia relevante.",
			},
		}
	case KindQuiz:
		obj = map[string]any{
			"questions": []map[string]any{
				{
					"prompt":      "¿Qué norma encabeza el ordenamiento jurídico español?",
					"options":     []string{"La Constitución de 1978", "El Código Civil", "La Ley 39/2015", "El Estatuto Básico"},
					"answer":      0,
					"explanation": "La Constitución es la norma suprema del ordenamiento.",
				},
				{
					"prompt":      "¿Qué mayoría exige la reforma agravada del art. 168 CE?",
					"options":     []string{"Mayoría simple", "Mayoría absoluta", "Dos tercios de cada Cámara", "Tres quintos del Senado"},
					"answer":      2,
					"explanation": "El procedimiento agravado exige dos tercios y disolución de las Cortes.",
				},
			},
		}
	case KindChat:
		obj = map[string]any{
			"answer": "Respuesta generada en modo offline: revisa la guía del tema para más detalle.",
		}
	default:
		obj = map[string]any{"ok": true}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
