package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	analysis "github.com/ecoute-app/ecoute/backend/internal/analysis/emotion"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
	chatService "github.com/ecoute-app/ecoute/backend/internal/service/chat"
	"github.com/ecoute-app/ecoute/backend/internal/service/reply"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := emotion.Default()
	if err != nil {
		t.Fatalf("Default catalog err: %v", err)
	}
	chatSvc := chatService.NewService(analysis.NewClassifier(catalog), reply.NewGenerator(catalog))
	return NewRouter(catalog, chatSvc, Options{HistoryWindow: 5})
}

func TestRouterConversationFlow(t *testing.T) {
	r := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/session", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var session struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	for i := 0; i < 3; i++ {
		body := bytes.NewBufferString(`{"text":"je suis très triste aujourd'hui"}`)
		resp = httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/sessions/"+session.ID+"/messages", body))
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.Code)
		}
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+session.ID+"/history", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID+"/history?limit=5", nil))
	var history struct {
		Turns []json.RawMessage `json:"turns"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.Turns) != 0 {
		t.Fatalf("expected empty history after reset, got %d", len(history.Turns))
	}
}

func TestRouterHealthAndCORS(t *testing.T) {
	r := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header, got %q", got)
	}
}
