package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"opostudy/internal/llm"
	"opostudy/internal/syllabus"
)

// echoClient answers with the call count so transcript growth is visible.
type echoClient struct {
	calls int
}

func (c *echoClient) Name() string { return "echo" }
func (c *echoClient) Close() error { return nil }
func (c *echoClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	c.calls++
	return json.RawMessage(fmt.Sprintf(`{"answer":"respuesta %d"}`, c.calls)), nil
}

func newTestService(cli llm.Client) *Service {
	return NewService(cli, syllabus.Default())
}

func TestAskAppendsTranscript(t *testing.T) {
	cli := &echoClient{}
	svc := newTestService(cli)
	ctx := context.Background()

	conv := svc.NewConversation()
	if conv == "" {
		t.Fatalf("empty conversation id")
	}

	ans, err := svc.Ask(ctx, conv, "t01", "¿Qué regula el Título I?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if ans != "respuesta 1" {
		t.Fatalf("answer = %q", ans)
	}

	if _, err := svc.Ask(ctx, conv, "t01", "¿Y el Título II?"); err != nil {
		t.Fatalf("ask 2: %v", err)
	}

	msgs := svc.Transcript(conv)
	if len(msgs) != 4 {
		t.Fatalf("transcript len = %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Fatalf("roles = %s/%s", msgs[0].Role, msgs[1].Role)
	}
	if msgs[2].Content != "¿Y el Título II?" {
		t.Fatalf("second question = %q", msgs[2].Content)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc := newTestService(&echoClient{})
	if _, err := svc.Ask(context.Background(), svc.NewConversation(), "t01", "   "); err == nil {
		t.Fatalf("expected error for empty question")
	}
}

func TestAskUnknownConversationStartsFresh(t *testing.T) {
	svc := newTestService(&echoClient{})
	if _, err := svc.Ask(context.Background(), "made-up", "t01", "hola"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got := len(svc.Transcript("made-up")); got != 2 {
		t.Fatalf("transcript len = %d", got)
	}
}

func TestTranscriptCapped(t *testing.T) {
	svc := newTestService(&echoClient{})
	ctx := context.Background()
	conv := svc.NewConversation()
	for i := 0; i < maxTranscriptLen; i++ {
		if _, err := svc.Ask(ctx, conv, "t01", fmt.Sprintf("pregunta %d", i)); err != nil {
			t.Fatalf("ask %d: %v", i, err)
		}
	}
	if got := len(svc.Transcript(conv)); got != maxTranscriptLen {
		t.Fatalf("transcript len = %d, want %d", got, maxTranscriptLen)
	}
}
