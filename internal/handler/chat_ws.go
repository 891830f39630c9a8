package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatWSInbound struct {
	Type     string `json:"type"`
	TopicID  string `json:"topicId,omitempty"`
	Question string `json:"question,omitempty"`
}

type chatWSOutbound struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Role           string `json:"role,omitempty"`
	Content        string `json:"content,omitempty"`
	Code           string `json:"code,omitempty"`
	Message        string `json:"message,omitempty"`
}

// HandleChatWS runs one study-chat conversation over a websocket. A missing
// conversation_id starts a new conversation; the assigned id is sent first so
// the client can reconnect to the same transcript.
func (h *Handler) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	conversationID := strings.TrimSpace(r.URL.Query().Get("conversation_id"))
	if conversationID == "" {
		conversationID = h.chat.NewConversation()
	}
	topicID := strings.TrimSpace(r.URL.Query().Get("topic_id"))

	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		log.Printf("chat ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	// The transcript replay is written synchronously: it can exceed the
	// outbound buffer, and a reconnect must never lose part of it to the
	// non-blocking push used for live messages.
	replay := []chatWSOutbound{{
		Type:           "conversation",
		ConversationID: conversationID,
	}}
	for _, msg := range h.chat.Transcript(conversationID) {
		replay = append(replay, chatWSOutbound{
			Type:           "message",
			ConversationID: conversationID,
			Role:           msg.Role,
			Content:        msg.Content,
		})
	}
	for _, out := range replay {
		if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}

	writeCh := make(chan chatWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushChatWS(writeCh, chatWSOutbound{Type: "pong"})
		case "ask":
			msgTopic := topicID
			if v := strings.TrimSpace(in.TopicID); v != "" {
				msgTopic = v
			}
			answer, askErr := h.chat.Ask(ctx, conversationID, msgTopic, in.Question)
			if askErr != nil {
				pushChatWS(writeCh, chatWSOutbound{
					Type:    "error",
					Code:    "ask_failed",
					Message: askErr.Error(),
				})
				continue
			}
			pushChatWS(writeCh, chatWSOutbound{
				Type:           "message",
				ConversationID: conversationID,
				Role:           "assistant",
				Content:        answer,
			})
		default:
			pushChatWS(writeCh, chatWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "type must be ping or ask",
			})
		}
	}
}

func pushChatWS(ch chan<- chatWSOutbound, out chatWSOutbound) {
	select {
	case ch <- out:
	default:
	}
}
