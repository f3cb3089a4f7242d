package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRefreshTTL  = 7 * 24 * time.Hour
	refreshKeyPrefix   = "testrol:refresh:"
	refreshStoreTimeout = 500 * time.Millisecond
)

var ErrRefreshNotFound = errors.New("refresh token not found")

// RefreshTokenStore recuerda a qué postulante pertenece cada jti vigente.
type RefreshTokenStore interface {
	Store(ctx context.Context, jti, postulanteID string, ttl time.Duration) error
	Owner(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

func refreshTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultRefreshTTL
	}
	return ttl
}

type refreshEntry struct {
	postulanteID string
	expiresAt    time.Time
}

type memoryRefreshTokenStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]refreshEntry
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		now:     func() time.Time { return time.Now().UTC() },
		entries: make(map[string]refreshEntry),
	}
}

func (s *memoryRefreshTokenStore) Store(_ context.Context, jti, postulanteID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = refreshEntry{postulanteID: postulanteID, expiresAt: s.now().Add(refreshTTL(ttl))}
	return nil
}

func (s *memoryRefreshTokenStore) Owner(_ context.Context, jti string) (string, error) {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[jti]
	if ok && s.now().After(entry.expiresAt) {
		delete(s.entries, jti)
		ok = false
	}
	if !ok {
		return "", ErrRefreshNotFound
	}
	return entry.postulanteID, nil
}

func (s *memoryRefreshTokenStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, strings.TrimSpace(jti))
	return nil
}

type redisRefreshKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRefreshTokenStore struct {
	client redisRefreshKV
}

// NewRedisRefreshTokenStore guarda jti -> postulante con el TTL del refresh token.
func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{client: client}
}

func (s *redisRefreshTokenStore) key(jti string) (string, bool) {
	jti = strings.TrimSpace(jti)
	return refreshKeyPrefix + jti, jti != ""
}

func (s *redisRefreshTokenStore) Store(ctx context.Context, jti, postulanteID string, ttl time.Duration) error {
	key, ok := s.key(jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, refreshStoreTimeout)
	defer cancel()
	return s.client.Set(ctx, key, postulanteID, refreshTTL(ttl)).Err()
}

func (s *redisRefreshTokenStore) Owner(ctx context.Context, jti string) (string, error) {
	key, ok := s.key(jti)
	if !ok {
		return "", ErrRefreshNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, refreshStoreTimeout)
	defer cancel()
	owner, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshNotFound
	}
	return owner, err
}

func (s *redisRefreshTokenStore) Revoke(ctx context.Context, jti string) error {
	key, ok := s.key(jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, refreshStoreTimeout)
	defer cancel()
	return s.client.Del(ctx, key).Err()
}
