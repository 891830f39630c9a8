// Package chat keeps per-conversation transcripts and answers follow-up
// questions about a topic through the generative backend.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"opostudy/internal/llm"
	"opostudy/internal/syllabus"
	"opostudy/internal/util/jsonutil"
)

// Transcripts are capped; older turns fall out of the prompt window anyway.
const maxTranscriptLen = 40

// How many recent turns are replayed to the model.
const promptWindow = 10

// Message is one turn in a conversation.
type Message struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Service holds in-memory transcripts keyed by conversation id. Transcripts
// are scoped to the process; the conversation id is minted here so clients
// cannot collide with each other.
type Service struct {
	cli     llm.Client
	catalog *syllabus.Catalog

	mu       sync.Mutex
	messages map[string][]Message
}

func NewService(cli llm.Client, catalog *syllabus.Catalog) *Service {
	return &Service{
		cli:      cli,
		catalog:  catalog,
		messages: make(map[string][]Message),
	}
}

// NewConversation mints a fresh conversation id.
func (s *Service) NewConversation() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.messages[id] = nil
	s.mu.Unlock()
	return id
}

// Transcript returns a copy of the conversation so far.
func (s *Service) Transcript(conversationID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages[conversationID]...)
}

const chatPrompt = `Eres un asistente de estudio para oposiciones españolas. Responde a la última
pregunta del usuario apoyándote en el tema y el historial del INPUT JSON.
Devuelve un único objeto JSON: {"answer": "respuesta en español, concisa"}.`

type chatInput struct {
	Topic    string     `json:"topic,omitempty"`
	Block    string     `json:"block,omitempty"`
	History  []chatTurn `json:"history,omitempty"`
	Question string     `json:"question"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Answer string `json:"answer"`
}

// Ask records the user turn, queries the backend and records the answer.
// An unknown conversation id starts a new transcript under that id.
func (s *Service) Ask(ctx context.Context, conversationID, topicID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("chat: empty question")
	}

	in := chatInput{Question: question}
	if topic, ok := s.catalog.Get(topicID); ok {
		in.Topic = topic.Title
		in.Block = topic.Block
	}
	for _, m := range s.tail(conversationID, promptWindow) {
		in.History = append(in.History, chatTurn{Role: m.Role, Content: m.Content})
	}

	ctx = llm.WithKind(ctx, llm.KindChat)
	raw, err := s.cli.GenerateJSON(ctx, chatPrompt, in)
	if err != nil {
		return "", fmt.Errorf("chat: ask: %w", err)
	}
	var p chatPayload
	if err := jsonutil.UnmarshalFlex(raw, &p); err != nil {
		return "", fmt.Errorf("chat: decode answer: %w", err)
	}
	answer := strings.TrimSpace(p.Answer)
	if answer == "" {
		return "", fmt.Errorf("chat: %w", llm.ErrInvalidJSON)
	}

	now := time.Now().UTC()
	s.append(conversationID,
		Message{Role: "user", Content: question, At: now},
		Message{Role: "assistant", Content: answer, At: now},
	)
	return answer, nil
}

func (s *Service) tail(conversationID string, n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[conversationID]
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return append([]Message(nil), msgs...)
}

func (s *Service) append(conversationID string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append(s.messages[conversationID], msgs...)
	if len(all) > maxTranscriptLen {
		all = all[len(all)-maxTranscriptLen:]
	}
	s.messages[conversationID] = all
}
