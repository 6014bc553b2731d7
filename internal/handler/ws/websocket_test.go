package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	analysis "github.com/ecoute-app/ecoute/backend/internal/analysis/emotion"
	"github.com/ecoute-app/ecoute/backend/internal/handler/view"
	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
	chatservice "github.com/ecoute-app/ecoute/backend/internal/service/chat"
	"github.com/ecoute-app/ecoute/backend/internal/service/reply"
)

type received struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

func setup(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	catalog, err := emotion.Default()
	if err != nil {
		t.Fatalf("Default catalog err: %v", err)
	}
	chatSvc := chatservice.NewService(analysis.NewClassifier(catalog), reply.NewGenerator(catalog, reply.WithSeed(5)))

	r := chi.NewRouter()
	New(chatSvc, 5, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chatSvc
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg received
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, kind string, data any) {
	t.Helper()
	payload := map[string]any{"type": kind}
	if data != nil {
		payload["data"] = data
	}
	if err := conn.WriteJSON(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWebSocketConversation(t *testing.T) {
	srv, chatSvc := setup(t)
	session, err := chatSvc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	conn := dial(t, srv, session.ID)

	hello := read(t, conn)
	if hello.Type != "connected" || hello.SessionID != session.ID {
		t.Fatalf("unexpected greeting: %+v", hello)
	}
	var info map[string]any
	_ = json.Unmarshal(hello.Data, &info)
	if info["disclaimer"] != chat.Disclaimer {
		t.Fatalf("missing disclaimer: %v", info)
	}

	send(t, conn, "text", TextMessage{Text: "je suis très triste aujourd'hui"})
	msg := read(t, conn)
	if msg.Type != "reply" {
		t.Fatalf("expected reply, got %s", msg.Type)
	}
	var turn view.Turn
	if err := json.Unmarshal(msg.Data, &turn); err != nil {
		t.Fatalf("decode turn: %v", err)
	}
	if turn.Emotion != "tristesse" {
		t.Fatalf("expected tristesse, got %s", turn.Emotion)
	}

	send(t, conn, "history", HistoryRequest{Limit: 3})
	msg = read(t, conn)
	var turns []view.Turn
	if err := json.Unmarshal(msg.Data, &turns); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if msg.Type != "history" || len(turns) != 1 {
		t.Fatalf("unexpected history %s: %d turns", msg.Type, len(turns))
	}

	send(t, conn, "reset", nil)
	if msg = read(t, conn); msg.Type != "reset" {
		t.Fatalf("expected reset ack, got %s", msg.Type)
	}
	if remaining, _ := chatSvc.History(context.Background(), session.ID, 5); len(remaining) != 0 {
		t.Fatalf("expected empty history, got %d", len(remaining))
	}
}

func TestWebSocketReportsErrors(t *testing.T) {
	srv, chatSvc := setup(t)
	session, _ := chatSvc.CreateSession(context.Background())
	conn := dial(t, srv, session.ID)
	read(t, conn)

	send(t, conn, "text", TextMessage{Text: "  "})
	msg := read(t, conn)
	var body map[string]string
	_ = json.Unmarshal(msg.Data, &body)
	if msg.Type != "error" || body["message"] != chat.InputPrompt {
		t.Fatalf("unexpected response %s %v", msg.Type, body)
	}

	send(t, conn, "audio", nil)
	if msg = read(t, conn); msg.Type != "error" {
		t.Fatalf("expected error for unsupported type, got %s", msg.Type)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := setup(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial failure")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}
