package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ecoute-app/ecoute/backend/internal/handler/chat"
	"github.com/ecoute-app/ecoute/backend/internal/handler/emotion"
	"github.com/ecoute-app/ecoute/backend/internal/handler/stream"
	"github.com/ecoute-app/ecoute/backend/internal/handler/ws"
	middlewarePkg "github.com/ecoute-app/ecoute/backend/internal/middleware"
	emotionModel "github.com/ecoute-app/ecoute/backend/internal/model/emotion"
	chatService "github.com/ecoute-app/ecoute/backend/internal/service/chat"
)

// Options tunes the HTTP surface.
type Options struct {
	HistoryWindow int
	AllowedOrigin string
	// Location renders wall-clock turn times; nil means UTC.
	Location *time.Location
}

// NewRouter wires HTTP routes to core services.
func NewRouter(catalog *emotionModel.Catalog, chatSvc *chatService.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(opts.AllowedOrigin))

	emotionHandler := emotion.New(catalog)
	chatHandler := chat.New(chatSvc, opts.HistoryWindow, opts.Location)
	streamHandler := stream.New(chatSvc)
	wsHandler := ws.New(chatSvc, opts.HistoryWindow, opts.Location)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		emotionHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
