package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "refresh:"

// TokenStore keeps hashed refresh tokens until they are used or revoked.
type TokenStore interface {
	Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	// Take returns the owner of tokenHash and removes it, so a refresh token
	// can be used once.
	Take(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Delete(ctx context.Context, tokenHash string) error
}

// RedisTokenStore stores refresh tokens as expiring keys.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+tokenHash, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("%w: save refresh token: %v", ErrTokenStore, err)
	}
	return nil
}

func (s *RedisTokenStore) Take(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	val, err := s.client.GetDel(ctx, refreshKeyPrefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrInvalidRefreshToken
		}
		return uuid.Nil, fmt.Errorf("%w: take refresh token: %v", ErrTokenStore, err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return id, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, refreshKeyPrefix+tokenHash).Err(); err != nil {
		return fmt.Errorf("%w: delete refresh token: %v", ErrTokenStore, err)
	}
	return nil
}

type memoryToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// MemoryTokenStore is used when Redis is not configured.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken), now: time.Now}
}

func (s *MemoryTokenStore) Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = memoryToken{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Take(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[tokenHash]
	if !ok {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	delete(s.tokens, tokenHash)
	if !s.now().Before(tok.expiresAt) {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return tok.userID, nil
}

func (s *MemoryTokenStore) Delete(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenHash)
	return nil
}
