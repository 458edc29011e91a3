// README: Device-token registry backed by Redis.
package notify

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"kart/internal/types"
)

const tokenKey = "kart:device_tokens"

// TokenStore keeps the latest FCM device token per customer.
type TokenStore struct {
	redis *redis.Client
}

func NewTokenStore(redis *redis.Client) *TokenStore {
	return &TokenStore{redis: redis}
}

func (s *TokenStore) Register(ctx context.Context, customerID types.ID, token string) error {
	return s.redis.HSet(ctx, tokenKey, string(customerID), token).Err()
}

func (s *TokenStore) DeviceToken(ctx context.Context, customerID types.ID) (string, bool) {
	token, err := s.redis.HGet(ctx, tokenKey, string(customerID)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("notify: token lookup for %s: %v", customerID, err)
		return "", false
	}
	return token, token != ""
}
