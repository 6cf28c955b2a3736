package session

import (
	"context"
	"errors"
	"sync"

	"github.com/orgball2608/elixir/internal/auth"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/pkg/logger"
)

// Store holds the identity of whoever is signed in. It has a single
// writer, the auth event subscription, and any number of readers.
type Store struct {
	auth   auth.Client
	logger logger.Logger

	mu        sync.RWMutex
	state     domain.Session
	eventSeen bool
	sub       auth.Subscription

	ready     chan struct{}
	readyOnce sync.Once
	closeOnce sync.Once
}

func New(client auth.Client, log logger.Logger) *Store {
	return &Store{
		auth:   client,
		logger: log.WithComponent("Session"),
		state:  domain.Session{IsLoading: true},
		ready:  make(chan struct{}),
	}
}

// Start subscribes to auth events and then resolves the current session.
// A failed lookup counts as signed out. If an event lands while the lookup
// is in flight, the event wins.
func (s *Store) Start(ctx context.Context) {
	sub := s.auth.OnAuthStateChange(s.apply)

	s.mu.Lock()
	if s.sub != nil {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.sub = sub
	s.mu.Unlock()

	id, err := s.auth.CurrentSession(ctx)
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			s.logger.Warn("Failed to get current session", "error", err)
		}
		id = ""
	}

	s.mu.Lock()
	if !s.eventSeen {
		s.state.Identity = id
	}
	s.state.IsLoading = false
	snapshot := s.state
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("Session resolved", "signed_in", !snapshot.Identity.IsZero())
}

func (s *Store) apply(ev domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case domain.SignedIn:
		s.state.Identity = ev.Identity
	case domain.SignedOut:
		s.state.Identity = ""
	default:
		return
	}
	s.eventSeen = true
}

// Identity returns the signed-in identity. ok is false while loading or signed out.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.IsLoading || s.state.Identity.IsZero() {
		return "", false
	}
	return s.state.Identity, true
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoading
}

func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready is closed once the initial lookup has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the store is ready and returns its state.
func (s *Store) Wait(ctx context.Context) (domain.Session, error) {
	select {
	case <-s.ready:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return domain.Session{}, ctx.Err()
	}
}

// Close releases the auth subscription.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		sub := s.sub
		s.mu.Unlock()

		if sub != nil {
			sub.Unsubscribe()
		}
	})
}
