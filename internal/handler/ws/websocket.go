package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/ecoute-app/ecoute/backend/internal/handler/chat"
	"github.com/ecoute-app/ecoute/backend/internal/handler/view"
	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	chatservice "github.com/ecoute-app/ecoute/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket对话处理器
type Handler struct {
	chatSvc       *chatservice.Service
	historyWindow int
	location      *time.Location
	upgrader      websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatservice.Service, historyWindow int, location *time.Location) *Handler {
	if historyWindow < 1 {
		historyWindow = 1
	}
	return &Handler{
		chatSvc:       chatSvc,
		historyWindow: historyWindow,
		location:      location,
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
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text string `json:"text"`
}

// HistoryRequest asks for the most recent turns.
type HistoryRequest struct {
	Limit int `json:"limit"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serializes writes; gorilla connections allow one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) send(msg outgoingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg.Timestamp = time.Now().UnixMilli()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(msg)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer wsConn.Close()
	c := &conn{ws: wsConn}

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = wsConn.SetReadDeadline(time.Now().Add(readTimeout))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, c)

	h.sendInfo(c, sessionID, "connected", map[string]any{
		"createdAt":  session.CreatedAt,
		"disclaimer": chat.Disclaimer,
	})

	for {
		var msg inboundMessage
		if err := wsConn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		_ = wsConn.SetReadDeadline(time.Now().Add(readTimeout))

		h.handleMessage(ctx, c, sessionID, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		h.handleTextMessage(ctx, c, sessionID, msg.Data)
	case "history":
		h.handleHistoryMessage(ctx, c, sessionID, msg.Data)
	case "reset":
		if err := h.chatSvc.Reset(ctx, sessionID); err != nil {
			h.sendServiceError(c, err)
			return
		}
		h.sendInfo(c, sessionID, "reset", nil)
	default:
		h.sendError(c, "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) handleTextMessage(ctx context.Context, c *conn, sessionID string, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(c, "invalid text payload")
		return
	}

	turn, err := h.chatSvc.Submit(ctx, sessionID, text.Text)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	h.sendInfo(c, sessionID, "reply", view.FromTurn(turn, h.location))
}

func (h *Handler) handleHistoryMessage(ctx context.Context, c *conn, sessionID string, raw json.RawMessage) {
	req := HistoryRequest{Limit: h.historyWindow}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			h.sendError(c, "invalid history payload")
			return
		}
		if req.Limit < 1 {
			req.Limit = h.historyWindow
		}
	}

	turns, err := h.chatSvc.History(ctx, sessionID, req.Limit)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	h.sendInfo(c, sessionID, "history", view.FromTurns(turns, h.location))
}

func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				log.Printf("[websocket] ping failed: %v", err)
				return
			}
		}
	}
}

func (h *Handler) sendInfo(c *conn, sessionID, kind string, data interface{}) {
	if err := c.send(outgoingMessage{Type: kind, SessionID: sessionID, Data: data}); err != nil {
		log.Printf("[websocket] send %s failed: %v", kind, err)
	}
}

func (h *Handler) sendServiceError(c *conn, err error) {
	status, message := chatHandler.Describe(err)
	if status == http.StatusInternalServerError {
		log.Printf("[websocket] request failed: %v", err)
	}
	h.sendError(c, message)
}

func (h *Handler) sendError(c *conn, message string) {
	if err := c.send(outgoingMessage{Type: "error", Data: map[string]string{"message": message}}); err != nil {
		log.Printf("[websocket] send error failed: %v", err)
	}
}
