package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"newsletter/internal/subscription/models"
	"newsletter/pkg/domain"
	"newsletter/pkg/platform/sentinel"
)

// MemoryStore keeps subscribers and tokens in maps for tests and local
// development. It honors the same error contract as the Postgres store,
// including email and token uniqueness.
type MemoryStore struct {
	mu          sync.RWMutex
	subscribers map[domain.SubscriberID]*models.Subscriber
	byEmail     map[string]domain.SubscriberID
	tokens      map[string]domain.SubscriberID
}

// NewMemory constructs an empty in-memory subscription store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[domain.SubscriberID]*models.Subscriber),
		byEmail:     make(map[string]domain.SubscriberID),
		tokens:      make(map[string]domain.SubscriberID),
	}
}

func (s *MemoryStore) FindSubscriberIDByToken(_ context.Context, token string) (domain.SubscriberID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return domain.SubscriberID{}, fmt.Errorf("token not known: %w", sentinel.ErrNotFound)
}

func (s *MemoryStore) ConfirmSubscriber(_ context.Context, id domain.SubscriberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subscribers[id]; ok {
		sub.Status = models.StatusConfirmed
	}
	return nil
}

// GetByEmail returns a copy of the stored subscriber, for test assertions.
func (s *MemoryStore) GetByEmail(email string) (models.Subscriber, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return models.Subscriber{}, false
	}
	return *s.subscribers[id], true
}

// TokenFor returns the token stored for a subscriber, for test assertions.
func (s *MemoryStore) TokenFor(id domain.SubscriberID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for token, owner := range s.tokens {
		if owner == id {
			return token, true
		}
	}
	return "", false
}

// RunInTx runs fn against a buffered view of the store. Writes are staged and
// merged only when fn succeeds, so a failure partway leaves no partial
// subscriber/token pair visible to readers.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(store TxStore) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &memoryTxStore{
		parent:      s,
		subscribers: make(map[domain.SubscriberID]*models.Subscriber),
		tokens:      make(map[string]domain.SubscriberID),
	}
	if err := fn(staged); err != nil {
		return err
	}

	for id, sub := range staged.subscribers {
		s.subscribers[id] = sub
		s.byEmail[sub.Email] = id
	}
	for token, id := range staged.tokens {
		s.tokens[token] = id
	}
	return nil
}

// memoryTxStore buffers writes under the parent's lock until commit.
type memoryTxStore struct {
	parent      *MemoryStore
	subscribers map[domain.SubscriberID]*models.Subscriber
	tokens      map[string]domain.SubscriberID
}

func (t *memoryTxStore) InsertSubscriber(_ context.Context, sub models.NewSubscriber) (domain.SubscriberID, error) {
	email := sub.Email.String()
	if _, exists := t.parent.byEmail[email]; exists {
		return domain.SubscriberID{}, fmt.Errorf("email already subscribed: %w", sentinel.ErrConflict)
	}
	for _, staged := range t.subscribers {
		if staged.Email == email {
			return domain.SubscriberID{}, fmt.Errorf("email already subscribed: %w", sentinel.ErrConflict)
		}
	}

	id := domain.NewSubscriberID()
	t.subscribers[id] = &models.Subscriber{
		ID:           id,
		Email:        email,
		Name:         sub.Name.String(),
		SubscribedAt: time.Now().UTC(),
		Status:       models.StatusPending,
	}
	return id, nil
}

func (t *memoryTxStore) StoreToken(_ context.Context, id domain.SubscriberID, token string) error {
	if _, exists := t.parent.tokens[token]; exists {
		return fmt.Errorf("token collision: %w", sentinel.ErrConflict)
	}
	if _, exists := t.tokens[token]; exists {
		return fmt.Errorf("token collision: %w", sentinel.ErrConflict)
	}
	t.tokens[token] = id
	return nil
}
