package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/safetrip/backend/internal/model/chat"
	"github.com/safetrip/backend/internal/service/assistant"
	applog "github.com/safetrip/backend/pkg/log"
	"github.com/safetrip/backend/pkg/utils"
)

// Handler streams one submission's bot messages via Server-Sent Events.
type Handler struct {
	assistantSvc *assistant.Service
}

// New creates a new stream handler
func New(assistantSvc *assistant.Service) *Handler {
	return &Handler{assistantSvc: assistantSvc}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string        `json:"event"`
	SessionID string        `json:"sessionId,omitempty"`
	Message   *chat.Message `json:"message,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Notice    string        `json:"notice,omitempty"`
	Finished  bool          `json:"finished,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ErrStreamingUnsupported is returned when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// HandleStreamRequest runs the assistant and pushes each bot message as it is stored.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return ErrStreamingUnsupported
	}

	utils.SetupSSEHeaders(w)

	h.send(w, flusher, StreamResponse{Event: "start", SessionID: sessionID})

	reply, err := h.assistantSvc.HandleStream(ctx, sessionID, userMessage, func(msg chat.Message) {
		h.send(w, flusher, StreamResponse{
			Event:     "message",
			SessionID: sessionID,
			Message:   &msg,
		})
	})
	if err != nil {
		h.send(w, flusher, StreamResponse{Event: "error", SessionID: sessionID, Error: err.Error()})
		return fmt.Errorf("stream submission: %w", err)
	}

	if reply.Notice != "" {
		h.send(w, flusher, StreamResponse{Event: "notice", SessionID: sessionID, Notice: reply.Notice})
	}

	h.send(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Kind:      reply.Kind.String(),
		Finished:  true,
	})

	applog.WithCtx(ctx).Info("stream completed", zap.String("session_id", sessionID), zap.Int("messages", len(reply.Messages)))
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	if err := utils.SendSSEEvent(w, flusher, response.Event, response); err != nil {
		applog.L().Warn("failed to send sse event", zap.String("event", response.Event), zap.Error(err))
	}
}
