// Package llm wraps the generative-AI backends that produce study guides,
// mind-map diagrams, quizzes and chat answers. Every client speaks JSON; the
// callers are responsible for coercing the payload into shape.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// Client is the interface all providers implement.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// Kind tags a request with what is being generated so logs and the fake
// client can tell requests apart.
type Kind string

const (
	KindGuide Kind = "guide"
	KindQuiz  Kind = "quiz"
	KindChat  Kind = "chat"
)

type ctxKeyKind struct{}

func WithKind(ctx context.Context, kind Kind) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyKind{}, kind)
}

// KindFrom returns the request kind stored in the context, or "" if unset.
func KindFrom(ctx context.Context) Kind {
	if ctx == nil {
		return ""
	}
	if k, ok := ctx.Value(ctxKeyKind{}).(Kind); ok {
		return k
	}
	return ""
}
