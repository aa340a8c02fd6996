package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizhippo/quiz-service/internal/ai"
)

const (
	sessionKeyPrefix  = "assistant:session:"
	DefaultSessionTTL = 24 * time.Hour
)

// SessionStore persists assistant conversation history in Redis so sessions
// survive process restarts and are shared across instances. It implements
// ai.SessionStore.
type SessionStore struct {
	cache CacheService
	ttl   time.Duration
}

func NewSessionStore(cache CacheService, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{cache: cache, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) ([]ai.Message, error) {
	var history []ai.Message
	err := s.cache.Get(ctx, sessionKeyPrefix+sessionID, &history)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return history, nil
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, history []ai.Message) error {
	if err := s.cache.Set(ctx, sessionKeyPrefix+sessionID, history, s.ttl); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}
