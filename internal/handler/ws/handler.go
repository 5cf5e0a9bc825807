package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/safetrip/backend/internal/model/chat"
	"github.com/safetrip/backend/internal/service/assistant"
	chatService "github.com/safetrip/backend/internal/service/chat"
	applog "github.com/safetrip/backend/pkg/log"
)

const writeWait = 10 * time.Second

// Handler WebSocket 聊天处理器
type Handler struct {
	chatSvc      *chatService.Service
	assistantSvc *assistant.Service
	upgrader     websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatService.Service, assistantSvc *assistant.Service) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		assistantSvc: assistantSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string        `json:"type"`
	SessionID string        `json:"sessionId,omitempty"`
	Message   *chat.Message `json:"message,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Notice    string        `json:"notice,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接；每条文本消息都同步处理完再读取下一条
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.WithCtx(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := applog.WithSession(r.Context(), sessionID)
	logger := applog.WithCtx(ctx)
	logger.Info("websocket connected")

	h.write(conn, outgoingMessage{Type: "connected", SessionID: sessionID})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var in inboundMessage
		if err := json.Unmarshal(data, &in); err != nil {
			h.write(conn, outgoingMessage{Type: "error", Error: "invalid message format"})
			continue
		}

		switch strings.ToLower(in.Type) {
		case "ping":
			h.write(conn, outgoingMessage{Type: "pong"})
		case "message", "":
			h.handleText(ctx, conn, sessionID, in.Text)
		default:
			h.write(conn, outgoingMessage{Type: "error", Error: "unknown message type: " + in.Type})
		}
	}
}

func (h *Handler) handleText(ctx context.Context, conn *websocket.Conn, sessionID, text string) {
	reply, err := h.assistantSvc.HandleStream(ctx, sessionID, text, func(msg chat.Message) {
		h.write(conn, outgoingMessage{Type: "message", SessionID: sessionID, Message: &msg})
	})
	if err != nil {
		status := "internal error"
		if errors.Is(err, assistant.ErrEmptyMessage) || errors.Is(err, chatService.ErrSessionNotFound) {
			status = err.Error()
		}
		h.write(conn, outgoingMessage{Type: "error", SessionID: sessionID, Error: status})
		return
	}

	if reply.Notice != "" {
		h.write(conn, outgoingMessage{Type: "notice", SessionID: sessionID, Notice: reply.Notice})
	}
	h.write(conn, outgoingMessage{Type: "done", SessionID: sessionID, Kind: reply.Kind.String()})
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		applog.L().Debug("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}
