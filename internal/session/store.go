package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shopstack/storefront-gateway/pkg/redis"
)

// ErrNotCached is returned when no user record is stored for a token.
var ErrNotCached = errors.New("session: user not cached")

// Store caches the user record keyed by bearer token. Get/Set/Clear only;
// entry lifetime is bounded by the token's own expiry, enforced via TTL on
// the redis implementation.
type Store interface {
	Get(ctx context.Context, token string) (User, error)
	Set(ctx context.Context, token string, user User, ttl time.Duration) error
	Clear(ctx context.Context, token string) error
}

// RedisStore caches session users in Redis, keyed by a token digest so raw
// bearer tokens never appear in the keyspace.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("session: redis client required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (User, error) {
	raw, err := s.client.Get(ctx, s.key(token))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return User{}, ErrNotCached
		}
		return User{}, err
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *RedisStore) Set(ctx context.Context, token string, user User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(token), string(payload), ttl)
}

func (s *RedisStore) Clear(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token))
}

func (s *RedisStore) key(token string) string {
	digest := sha256.Sum256([]byte(token))
	return s.client.SessionKey(hex.EncodeToString(digest[:]))
}

// MemoryStore is the in-process Store used by tests and single-instance dev.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]User{}}
}

func (s *MemoryStore) Get(_ context.Context, token string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[token]
	if !ok {
		return User{}, ErrNotCached
	}
	return user, nil
}

func (s *MemoryStore) Set(_ context.Context, token string, user User, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[token] = user
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, token)
	return nil
}
