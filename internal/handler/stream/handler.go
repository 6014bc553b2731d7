package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/ecoute-app/ecoute/backend/internal/handler/chat"
	"github.com/ecoute-app/ecoute/backend/internal/handler/view"
	chatService "github.com/ecoute-app/ecoute/backend/internal/service/chat"
	"github.com/ecoute-app/ecoute/backend/pkg/utils"
)

// Handler streams a turn's reply via Server-Sent Events.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the stream endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if err := h.HandleStreamRequest(r.Context(), w, sessionID, r.URL.Query().Get("message")); err != nil {
			log.Printf("[stream] session=%s: %v", sessionID, err)
		}
	})
}

// StreamResponse is the payload of the text events.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
}

// HandleStreamRequest records the turn, then emits emotion, reply, exercise
// and quote events followed by done. Failures before streaming starts are
// answered with a regular JSON error.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	turn, err := h.chatSvc.Submit(ctx, sessionID, userMessage)
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return err
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	v := view.FromTurn(turn, nil)
	utils.SendSSEEvent(w, flusher, "emotion", map[string]string{
		"emotion": v.Emotion,
		"title":   v.EmotionTitle,
	})
	utils.SendSSEEvent(w, flusher, "reply", StreamResponse{Event: "reply", Content: turn.Reply.Text, SessionID: sessionID})
	if turn.Reply.HasExercise() {
		utils.SendSSEEvent(w, flusher, "exercise", StreamResponse{Event: "exercise", Content: turn.Reply.Exercise, SessionID: sessionID})
	}
	if turn.Reply.HasQuote() {
		utils.SendSSEEvent(w, flusher, "quote", StreamResponse{Event: "quote", Content: turn.Reply.Quote, SessionID: sessionID})
	}
	utils.SendSSEEvent(w, flusher, "done", v)
	return nil
}
