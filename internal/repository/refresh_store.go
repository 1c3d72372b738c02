package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"okane/internal/model"
)

const refreshKeyPrefix = "refresh_token:"

// RefreshStore tracks refresh secrets by their hash in Redis. Records carry
// a TTL and evict on their own; a missing key never reveals whether it
// expired or never existed. All operations touch a single key, so Redis
// command atomicity is the whole concurrency contract.
type RefreshStore struct {
	client redis.UniversalClient
}

func NewRefreshStore(client redis.UniversalClient) *RefreshStore {
	return &RefreshStore{client: client}
}

func (s *RefreshStore) key(hash string) string {
	return refreshKeyPrefix + hash
}

// Put records hash → userID with the given TTL, overwriting any prior value.
func (s *RefreshStore) Put(ctx context.Context, hash string, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(hash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Get resolves hash to a user id. Returns model.ErrRefreshNotFound for both
// unknown and expired hashes.
func (s *RefreshStore) Get(ctx context.Context, hash string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", model.ErrRefreshNotFound
	}
	if err != nil {
		return "", fmt.Errorf("look up refresh token: %w", err)
	}
	return userID, nil
}

// TakeOne atomically claims and removes the record, so a secret can be
// redeemed at most once no matter how many requests race on it.
func (s *RefreshStore) TakeOne(ctx context.Context, hash string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", model.ErrRefreshNotFound
	}
	if err != nil {
		return "", fmt.Errorf("claim refresh token: %w", err)
	}
	return userID, nil
}

// Delete removes the record if present. Idempotent.
func (s *RefreshStore) Delete(ctx context.Context, hash string) error {
	if err := s.client.Del(ctx, s.key(hash)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
