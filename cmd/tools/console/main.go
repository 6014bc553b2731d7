package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	analysis "github.com/ecoute-app/ecoute/backend/internal/analysis/emotion"
	"github.com/ecoute-app/ecoute/backend/internal/config"
	"github.com/ecoute-app/ecoute/backend/internal/handler/view"
	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
	chatservice "github.com/ecoute-app/ecoute/backend/internal/service/chat"
	"github.com/ecoute-app/ecoute/backend/internal/service/reply"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] .env not loaded, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalogPath := flag.String("catalog", cfg.Chat.CatalogPath, "emotion catalog YAML (embedded catalog when empty)")
	window := flag.Int("window", cfg.Chat.HistoryWindow, "number of turns shown by /history")
	seed := flag.Int64("seed", 0, "fixed seed for reply selection (0 = random)")
	flag.Parse()

	catalog, err := emotion.Load(*catalogPath)
	if err != nil {
		log.Fatalf("failed to load emotion catalog: %v", err)
	}

	var opts []reply.Option
	switch {
	case *seed != 0:
		opts = append(opts, reply.WithSeed(*seed))
	case cfg.Chat.Seed != nil:
		opts = append(opts, reply.WithSeed(*cfg.Chat.Seed))
	}

	svc := chatservice.NewService(analysis.NewClassifier(catalog), reply.NewGenerator(catalog, opts...))
	if err := run(context.Background(), os.Stdin, os.Stdout, svc, *window, cfg.Chat.DisplayLocation); err != nil {
		log.Fatal(err)
	}
}

// run drives one console session until /quit or end of input.
func run(ctx context.Context, in io.Reader, out io.Writer, svc *chatservice.Service, window int, loc *time.Location) error {
	session, err := svc.CreateSession(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Écoute Emotionnelle : un espace sûr pour explorer tes émotions")
	fmt.Fprintln(out, chat.Disclaimer)
	fmt.Fprintln(out, "Commandes : /history, /reset, /quit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()

		switch strings.TrimSpace(line) {
		case "/quit":
			return nil
		case "/reset":
			if err := svc.Reset(ctx, session.ID); err != nil {
				return err
			}
			fmt.Fprintln(out, "Nouvelle conversation.")
			continue
		case "/history":
			turns, err := svc.History(ctx, session.ID, window)
			if err != nil {
				return err
			}
			printHistory(out, turns, loc)
			continue
		}

		turn, err := svc.Submit(ctx, session.ID, strings.TrimSpace(line))
		if errors.Is(err, analysis.ErrInvalidInput) {
			fmt.Fprintln(out, chat.InputPrompt)
			continue
		}
		if err != nil {
			log.Printf("[console] submit failed: %v", err)
			fmt.Fprintln(out, "Quelque chose s'est mal passé.")
			continue
		}
		printReply(out, turn)
	}
}

func printReply(out io.Writer, turn chat.Turn) {
	fmt.Fprintf(out, "Réponse : %s\n", turn.Reply.Text)
	if turn.Reply.HasExercise() {
		fmt.Fprintf(out, "Exercice : %s\n", turn.Reply.Exercise)
	}
	if turn.Reply.HasQuote() {
		fmt.Fprintf(out, "✨ %s\n", turn.Reply.Quote)
	}
}

// printHistory lists turns newest first.
func printHistory(out io.Writer, turns []chat.Turn, loc *time.Location) {
	if len(turns) == 0 {
		fmt.Fprintln(out, "Aucun échange pour le moment.")
		return
	}
	for i := len(turns) - 1; i >= 0; i-- {
		v := view.FromTurn(turns[i], loc)
		fmt.Fprintf(out, "[%s] Toi : %s\n", v.Time, v.UserText)
		fmt.Fprintf(out, "        Réponse : %s\n", v.Reply.Text)
		if v.EmotionTitle != "" {
			fmt.Fprintf(out, "        Détecté : %s\n", v.EmotionTitle)
		}
	}
}
