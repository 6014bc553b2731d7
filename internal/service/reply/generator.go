package reply

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
)

// ErrUnknownEmotion is returned when a label is missing from the catalog.
var ErrUnknownEmotion = errors.New("unknown emotion")

// FallbackResponses are used when no emotion was detected.
var FallbackResponses = []string{
	"Je t'écoute avec attention. Dis-m'en plus si tu le souhaites.",
	"Merci de partager cela. Comment te sens-tu en ce moment précis ?",
	"Prends une profonde respiration. Je suis là pour t'accompagner.",
}

// Source draws a uniform index in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces the random source.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithSeed uses a deterministic source seeded with seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.src = rand.New(rand.NewSource(seed))
	}
}

// Generator builds replies by sampling the catalog's candidates.
type Generator struct {
	catalog  *emotion.Catalog
	fallback []string

	mu  sync.Mutex
	src Source
}

// NewGenerator returns a generator seeded from the clock unless an option
// supplies a source.
func NewGenerator(catalog *emotion.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog:  catalog,
		fallback: append([]string(nil), FallbackResponses...),
		src:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate picks a response, and when the emotion has them an exercise and a
// quote, each drawn independently. emotion.None yields a fallback response
// with neither exercise nor quote.
func (g *Generator) Generate(label emotion.Label) (chat.Reply, error) {
	if label == emotion.None {
		return chat.Reply{Text: g.pick(g.fallback)}, nil
	}

	entry, ok := g.catalog.Lookup(label)
	if !ok {
		return chat.Reply{}, fmt.Errorf("%w: %q", ErrUnknownEmotion, label)
	}

	return chat.Reply{
		Text:     g.pick(entry.Responses),
		Exercise: g.pick(entry.Exercises),
		Quote:    g.pick(entry.Quotes),
	}, nil
}

func (g *Generator) pick(choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	g.mu.Lock()
	i := g.src.Intn(len(choices))
	g.mu.Unlock()
	return choices[i]
}
