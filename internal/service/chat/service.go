package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
)

var ErrSessionNotFound = errors.New("session not found")

// Classifier detects the emotion of one submission.
type Classifier interface {
	Classify(text string) (emotion.Label, error)
}

// Generator builds the reply for a detected emotion.
type Generator interface {
	Generate(label emotion.Label) (chat.Reply, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to stamp sessions and turns.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type sessionState struct {
	mu      sync.Mutex
	session chat.Session
	history *chat.History
}

// Service encapsulates conversation state management. Every session owns its
// own history; nothing is shared between sessions.
type Service struct {
	classifier Classifier
	generator  Generator
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// NewService bootstraps the in-memory chat service.
func NewService(classifier Classifier, generator Generator, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		generator:  generator,
		now:        time.Now,
		sessions:   make(map[string]*sessionState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession provisions an anonymous session with an empty history.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionState{session: session, history: chat.NewHistory()}
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return state.session, nil
}

// EndSession forgets the session and its history.
func (s *Service) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// Submit classifies text, generates the reply and records the turn. Nothing
// is recorded when classification or generation fails.
func (s *Service) Submit(_ context.Context, sessionID, text string) (chat.Turn, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return chat.Turn{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	label, err := s.classifier.Classify(text)
	if err != nil {
		return chat.Turn{}, fmt.Errorf("classify: %w", err)
	}

	reply, err := s.generator.Generate(label)
	if err != nil {
		log.Printf("[chat] reply generation failed session=%s emotion=%s: %v", sessionID, label, err)
		return chat.Turn{}, fmt.Errorf("generate reply: %w", err)
	}

	turn := chat.Turn{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		UserText:  text,
		Reply:     reply,
		Emotion:   label,
	}
	state.history.Append(turn)
	return turn, nil
}

// History returns up to limit of the most recent turns, oldest first.
func (s *Service) History(_ context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.history.Recent(limit), nil
}

// Reset clears the session history, starting a new conversation.
func (s *Service) Reset(_ context.Context, sessionID string) error {
	state, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	state.history.Clear()
	state.mu.Unlock()
	return nil
}

func (s *Service) lookup(sessionID string) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state, nil
}
