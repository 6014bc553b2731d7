package emotion

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecoute-app/ecoute/backend/internal/handler/view"
	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
	"github.com/ecoute-app/ecoute/backend/pkg/utils"
)

// Handler 情绪目录的HTTP处理器
type Handler struct {
	catalog *emotion.Catalog
}

// New 创建情绪目录处理器
func New(catalog *emotion.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes 注册情绪目录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/emotions", h.handleListEmotions)
	r.Get("/about", h.handleAbout)
}

type emotionSummary struct {
	Label     string `json:"label"`
	Title     string `json:"title"`
	Keywords  int    `json:"keywords"`
	Exercises int    `json:"exercises"`
	Quotes    int    `json:"quotes"`
}

// handleListEmotions 列出可识别的情绪
func (h *Handler) handleListEmotions(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.Entries()
	out := make([]emotionSummary, 0, len(entries))
	for _, entry := range entries {
		out = append(out, emotionSummary{
			Label:     string(entry.Label),
			Title:     view.Title(entry.Label),
			Keywords:  len(entry.Keywords),
			Exercises: len(entry.Exercises),
			Quotes:    len(entry.Quotes),
		})
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"disclaimer": chat.Disclaimer,
		"tips":       chat.Tips,
	})
}
