package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisKV struct {
	values  map[string]string
	ttls    map[string]time.Duration
	failing error
}

func newFakeRedisKV() *fakeRedisKV {
	return &fakeRedisKV{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.failing != nil {
		cmd.SetErr(f.failing)
		return cmd
	}
	f.values[key], _ = value.(string)
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedisKV) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if f.failing != nil {
		cmd.SetErr(f.failing)
		return cmd
	}
	v, ok := f.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedisKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.failing != nil {
		cmd.SetErr(f.failing)
		return cmd
	}
	for _, k := range keys {
		delete(f.values, k)
		delete(f.ttls, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestRefreshTokenStores(t *testing.T) {
	stores := map[string]func() RefreshTokenStore{
		"memory": NewMemoryRefreshTokenStore,
		"redis": func() RefreshTokenStore {
			return &redisRefreshTokenStore{client: newFakeRedisKV()}
		},
	}
	ctx := context.Background()
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			if _, err := store.Owner(ctx, "missing"); !errors.Is(err, ErrRefreshNotFound) {
				t.Fatalf("expected ErrRefreshNotFound, got %v", err)
			}
			if err := store.Store(ctx, "", "p1", time.Minute); err != nil {
				t.Fatalf("empty jti must be a no-op, got %v", err)
			}
			if err := store.Store(ctx, "jti-1", "p1", time.Minute); err != nil {
				t.Fatalf("store: %v", err)
			}
			if owner, err := store.Owner(ctx, " jti-1 "); err != nil || owner != "p1" {
				t.Fatalf("expected owner p1, got %q,%v", owner, err)
			}
			if err := store.Revoke(ctx, "jti-1"); err != nil {
				t.Fatalf("revoke: %v", err)
			}
			if _, err := store.Owner(ctx, "jti-1"); !errors.Is(err, ErrRefreshNotFound) {
				t.Fatalf("expected revoked token to be gone, got %v", err)
			}
		})
	}
}

func TestMemoryRefreshTokenStoreExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryRefreshTokenStore{now: func() time.Time { return now }, entries: make(map[string]refreshEntry)}
	if err := store.Store(context.Background(), "jti", "p1", time.Minute); err != nil {
		t.Fatalf("store: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := store.Owner(context.Background(), "jti"); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("expected expired token, got %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatalf("expired entry should be evicted")
	}
}

func TestRedisRefreshTokenStoreKeysAndTTL(t *testing.T) {
	kv := newFakeRedisKV()
	store := &redisRefreshTokenStore{client: kv}

	if err := store.Store(context.Background(), " j1 ", "p1", 0); err != nil {
		t.Fatalf("store: %v", err)
	}
	if kv.values["testrol:refresh:j1"] != "p1" {
		t.Fatalf("expected trimmed prefixed key holding the owner, got %+v", kv.values)
	}
	if ttl := kv.ttls["testrol:refresh:j1"]; ttl != defaultRefreshTTL {
		t.Fatalf("expected default ttl, got %v", ttl)
	}
}

func TestRedisRefreshTokenStoreErrors(t *testing.T) {
	kv := newFakeRedisKV()
	kv.failing = errors.New("redis down")
	store := &redisRefreshTokenStore{client: kv}
	ctx := context.Background()

	if err := store.Store(ctx, "j2", "p1", time.Minute); err == nil {
		t.Fatalf("expected store error")
	}
	if _, err := store.Owner(ctx, "j2"); err == nil || errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err := store.Revoke(ctx, "j2"); err == nil {
		t.Fatalf("expected revoke error")
	}
}
