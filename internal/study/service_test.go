package study

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"opostudy/internal/llm"
	"opostudy/internal/mermaid"
	"opostudy/internal/progress"
	"opostudy/internal/syllabus"
)

// scriptedClient returns fixed payloads per request kind and counts calls.
type scriptedClient struct {
	byKind map[llm.Kind]string
	calls  int
}

func (c *scriptedClient) Name() string { return "scripted" }
func (c *scriptedClient) Close() error { return nil }
func (c *scriptedClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	c.calls++
	return json.RawMessage(c.byKind[llm.KindFrom(ctx)]), nil
}

func testTopic() syllabus.Topic {
	return syllabus.Topic{ID: "t01", Title: "La Constitución Española", Block: "Organización del Estado"}
}

func newTestService(cli llm.Client) *Service {
	return NewService(cli, progress.NewMemoryStore(), 16, time.Minute)
}

func TestMaterialRepairsDiagram(t *testing.T) {
	cli := &scriptedClient{byKind: map[llm.Kind]string{
		llm.KindGuide: `{"guide":"## Tema","diagram":"` +
			"```mermaid\\ngraph TD\\nN1[\\\"Tema (CE)\\\"]:::main --> N2[\\\"Título I\\\"]:::subclassDef main fill:#fff;\\n```" +
			`","details":{"N1":"raíz"}}`,
	}}
	svc := newTestService(cli)

	m, err := svc.Material(context.Background(), testTopic(), false)
	if err != nil {
		t.Fatalf("material: %v", err)
	}
	if strings.Contains(m.Diagram, "```") {
		t.Fatalf("fence survived repair: %q", m.Diagram)
	}
	if !strings.HasPrefix(m.Diagram, "graph TD") {
		t.Fatalf("diagram not anchored: %q", m.Diagram)
	}
	if m.Diagram != mermaid.Repair(m.Diagram) {
		t.Fatalf("stored diagram is not in repaired form")
	}
	if m.Details["N1"] != "raíz" {
		t.Fatalf("details not carried through: %v", m.Details)
	}
}

func TestMaterialCachedAcrossCalls(t *testing.T) {
	cli := &scriptedClient{byKind: map[llm.Kind]string{
		llm.KindGuide: `{"guide":"g","diagram":"graph LR\nA-->B","details":{}}`,
	}}
	svc := newTestService(cli)
	ctx := context.Background()

	if _, err := svc.Material(ctx, testTopic(), false); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.Material(ctx, testTopic(), false); err != nil {
		t.Fatalf("second: %v", err)
	}
	if cli.calls != 1 {
		t.Fatalf("expected 1 backend call, got %d", cli.calls)
	}

	// force regenerates.
	if _, err := svc.Material(ctx, testTopic(), true); err != nil {
		t.Fatalf("force: %v", err)
	}
	if cli.calls != 2 {
		t.Fatalf("expected 2 backend calls after force, got %d", cli.calls)
	}
}

func TestMaterialSurvivesServiceRestart(t *testing.T) {
	store := progress.NewMemoryStore()
	cli := &scriptedClient{byKind: map[llm.Kind]string{
		llm.KindGuide: `{"guide":"g","diagram":"graph LR\nA-->B","details":{}}`,
	}}
	ctx := context.Background()

	svc := NewService(cli, store, 16, time.Minute)
	if _, err := svc.Material(ctx, testTopic(), false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	again := NewService(cli, store, 16, time.Minute)
	if _, err := again.Material(ctx, testTopic(), false); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cli.calls != 1 {
		t.Fatalf("expected stored material to be reused, got %d calls", cli.calls)
	}
}

func TestNewQuizDropsMalformedQuestions(t *testing.T) {
	cli := &scriptedClient{byKind: map[llm.Kind]string{
		llm.KindQuiz: `{"questions":[
			{"prompt":"buena","options":["a","b","c","d"],"answer":2,"explanation":"x"},
			{"prompt":"","options":["a","b"],"answer":0},
			{"prompt":"fuera de rango","options":["a","b"],"answer":5},
			{"prompt":"sin opciones","options":["a"],"answer":0}
		]}`,
	}}
	svc := newTestService(cli)

	quiz, err := svc.NewQuiz(context.Background(), testTopic(), 10)
	if err != nil {
		t.Fatalf("new quiz: %v", err)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("questions = %+v", quiz.Questions)
	}
	if quiz.Questions[0].Prompt != "buena" || quiz.Questions[0].Answer != 2 {
		t.Fatalf("kept wrong question: %+v", quiz.Questions[0])
	}
	if quiz.ID == "" {
		t.Fatalf("quiz id missing")
	}
}

func TestNewQuizAllMalformedFails(t *testing.T) {
	cli := &scriptedClient{byKind: map[llm.Kind]string{
		llm.KindQuiz: `{"questions":[{"prompt":"","options":[],"answer":0}]}`,
	}}
	svc := newTestService(cli)
	if _, err := svc.NewQuiz(context.Background(), testTopic(), 5); err == nil {
		t.Fatalf("expected error for unusable quiz")
	}
}

func TestGradeQuiz(t *testing.T) {
	quiz := Quiz{
		ID:      "q1",
		TopicID: "t01",
		Questions: []Question{
			{ID: "q1-1", Prompt: "a", Options: []string{"x", "y"}, Answer: 0},
			{ID: "q1-2", Prompt: "b", Options: []string{"x", "y"}, Answer: 1},
			{ID: "q1-3", Prompt: "c", Options: []string{"x", "y"}, Answer: 0},
		},
	}
	res := GradeQuiz(quiz, []int{0, 0})
	if res.Correct != 1 || res.Total != 3 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Missed) != 2 {
		t.Fatalf("missed = %+v", res.Missed)
	}
	// Unanswered question reported with given = -1.
	if res.Missed[1].Given != -1 {
		t.Fatalf("unanswered given = %d", res.Missed[1].Given)
	}
}

func TestGradeRecordsProgress(t *testing.T) {
	cli := &scriptedClient{byKind: map[llm.Kind]string{
		llm.KindQuiz: `{"questions":[
			{"prompt":"p1","options":["a","b"],"answer":0},
			{"prompt":"p2","options":["a","b"],"answer":1}
		]}`,
	}}
	svc := newTestService(cli)
	ctx := context.Background()

	quiz, err := svc.NewQuiz(ctx, testTopic(), 2)
	if err != nil {
		t.Fatalf("new quiz: %v", err)
	}
	res, err := svc.Grade(ctx, quiz.ID, []int{0, 0})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.Correct != 1 || res.Score != 0.5 {
		t.Fatalf("result = %+v", res)
	}

	p, err := svc.Tracker().Topic(ctx, "t01")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.QuizzesTaken != 1 || p.Correct != 1 || p.Answered != 2 {
		t.Fatalf("progress = %+v", p)
	}
	if len(p.Missed) != 1 || p.Missed[0].Prompt != "p2" {
		t.Fatalf("missed = %+v", p.Missed)
	}
}

func TestGradeUnknownQuiz(t *testing.T) {
	svc := newTestService(&scriptedClient{byKind: map[llm.Kind]string{}})
	if _, err := svc.Grade(context.Background(), "nope", nil); err == nil {
		t.Fatalf("expected unknown quiz error")
	}
}
