package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"test-rol/internal/questionnaire"
)

var ErrProgressNotFound = errors.New("progress not found")

// ProgressStore guarda el estado del cuestionario de cada postulante entre requests.
type ProgressStore interface {
	Save(ctx context.Context, postulanteID string, snap questionnaire.Snapshot) error
	Load(ctx context.Context, postulanteID string) (questionnaire.Snapshot, error)
	Delete(ctx context.Context, postulanteID string) error
}

type memoryProgressStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryProgress
}

type memoryProgress struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryProgressStore crea un store en memoria; ttl <= 0 no expira.
func NewMemoryProgressStore(ttl time.Duration) ProgressStore {
	return &memoryProgressStore{
		ttl:   ttl,
		items: make(map[string]memoryProgress),
	}
}

func (s *memoryProgressStore) Save(_ context.Context, postulanteID string, snap questionnaire.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item := memoryProgress{data: data}
	if s.ttl > 0 {
		item.expiresAt = time.Now().UTC().Add(s.ttl)
	}
	s.items[postulanteID] = item
	return nil
}

func (s *memoryProgressStore) Load(_ context.Context, postulanteID string) (questionnaire.Snapshot, error) {
	s.mu.Lock()
	item, ok := s.items[postulanteID]
	if ok && !item.expiresAt.IsZero() && time.Now().UTC().After(item.expiresAt) {
		delete(s.items, postulanteID)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return questionnaire.Snapshot{}, ErrProgressNotFound
	}
	var snap questionnaire.Snapshot
	if err := json.Unmarshal(item.data, &snap); err != nil {
		return questionnaire.Snapshot{}, err
	}
	return snap, nil
}

func (s *memoryProgressStore) Delete(_ context.Context, postulanteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, postulanteID)
	return nil
}

type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisProgressStore struct {
	client redisKV
	ttl    time.Duration
	prefix string
}

func NewRedisProgressStore(client *redis.Client, ttl time.Duration) ProgressStore {
	if client == nil {
		return nil
	}
	return &redisProgressStore{
		client: client,
		ttl:    ttl,
		prefix: "testrol:progress:",
	}
}

func (s *redisProgressStore) key(postulanteID string) string {
	return s.prefix + strings.TrimSpace(postulanteID)
}

func (s *redisProgressStore) Save(ctx context.Context, postulanteID string, snap questionnaire.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.key(postulanteID), data, s.ttl).Err()
}

func (s *redisProgressStore) Load(ctx context.Context, postulanteID string) (questionnaire.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	data, err := s.client.Get(ctx, s.key(postulanteID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return questionnaire.Snapshot{}, ErrProgressNotFound
		}
		return questionnaire.Snapshot{}, err
	}
	var snap questionnaire.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return questionnaire.Snapshot{}, err
	}
	return snap, nil
}

func (s *redisProgressStore) Delete(ctx context.Context, postulanteID string) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.key(postulanteID)).Err()
}
