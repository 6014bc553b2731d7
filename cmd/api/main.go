package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	analysis "github.com/ecoute-app/ecoute/backend/internal/analysis/emotion"
	"github.com/ecoute-app/ecoute/backend/internal/config"
	"github.com/ecoute-app/ecoute/backend/internal/handler"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
	"github.com/ecoute-app/ecoute/backend/internal/service/chat"
	"github.com/ecoute-app/ecoute/backend/internal/service/reply"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalog, err := emotion.Load(cfg.Chat.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load emotion catalog: %v", err)
	}
	log.Printf("emotion catalog loaded: %d emotions %v", catalog.Len(), catalog.Labels())

	var replyOpts []reply.Option
	if cfg.Chat.Seed != nil {
		replyOpts = append(replyOpts, reply.WithSeed(*cfg.Chat.Seed))
		log.Printf("reply selection seeded with %d", *cfg.Chat.Seed)
	}

	chatService := chat.NewService(
		analysis.NewClassifier(catalog),
		reply.NewGenerator(catalog, replyOpts...),
	)

	router := handler.NewRouter(catalog, chatService, handler.Options{
		HistoryWindow: cfg.Chat.HistoryWindow,
		AllowedOrigin: cfg.Server.AllowedOrigin,
		Location:      cfg.Chat.DisplayLocation,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Écoute backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
