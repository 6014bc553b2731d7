package chat

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	analysis "github.com/ecoute-app/ecoute/backend/internal/analysis/emotion"
	"github.com/ecoute-app/ecoute/backend/internal/handler/view"
	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	chatService "github.com/ecoute-app/ecoute/backend/internal/service/chat"
	"github.com/ecoute-app/ecoute/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc       *chatService.Service
	historyWindow int
	location      *time.Location
}

// New 创建聊天处理器; location renders turn times (UTC when nil).
func New(chatSvc *chatService.Service, historyWindow int, location *time.Location) *Handler {
	if historyWindow < 1 {
		historyWindow = 1
	}
	return &Handler{
		chatSvc:       chatSvc,
		historyWindow: historyWindow,
		location:      location,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleEndSession)
		r.Post("/messages", h.handleSubmit)
		r.Get("/history", h.handleHistory)
		r.Delete("/history", h.handleReset)
	})
}

type sessionResponse struct {
	chat.Session
	Disclaimer string `json:"disclaimer"`
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sessionResponse{Session: session, Disclaimer: chat.Disclaimer})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmit 处理用户消息并返回回复
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.chatSvc.Submit(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
	if err != nil {
		RespondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, view.FromTurn(turn, h.location))
}

// handleHistory 返回最近的对话
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.historyWindow
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	turns, err := h.chatSvc.History(r.Context(), chi.URLParam(r, "sessionID"), limit)
	if err != nil {
		RespondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"turns": view.FromTurns(turns, h.location)})
}

// handleReset 开始新的对话
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.Reset(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RespondServiceError maps chat service errors onto HTTP statuses. Contract
// violations are logged and hidden behind a generic message.
func RespondServiceError(w http.ResponseWriter, err error) {
	status, message := Describe(err)
	if status == http.StatusInternalServerError {
		log.Printf("[chat] request failed: %v", err)
	}
	utils.RespondError(w, status, message)
}

// Describe returns the status and user-facing message for err.
func Describe(err error) (int, string) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound, chatService.ErrSessionNotFound.Error()
	case errors.Is(err, analysis.ErrInvalidInput):
		return http.StatusBadRequest, chat.InputPrompt
	default:
		return http.StatusInternalServerError, "something went wrong"
	}
}
