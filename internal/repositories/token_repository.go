package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepository stores issued refresh tokens. A refresh token is valid only
// while its entry exists; logout and refresh-rotation revoke it.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uint, token string, ttl time.Duration) error
	IsRefreshTokenValid(ctx context.Context, userID uint, token string) (bool, error)
	RevokeRefreshTokens(ctx context.Context, userID uint) error
}

// RedisTokenRepository implements TokenRepository on Redis
type RedisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository creates a new RedisTokenRepository
func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

func refreshTokenKey(userID uint) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

// StoreRefreshToken stores the user's current refresh token with a TTL,
// replacing any previously issued one.
func (r *RedisTokenRepository) StoreRefreshToken(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	return r.client.Set(ctx, refreshTokenKey(userID), token, ttl).Err()
}

// IsRefreshTokenValid checks the presented token against the stored one
func (r *RedisTokenRepository) IsRefreshTokenValid(ctx context.Context, userID uint, token string) (bool, error) {
	stored, err := r.client.Get(ctx, refreshTokenKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == token, nil
}

// RevokeRefreshTokens invalidates the user's refresh token on logout
func (r *RedisTokenRepository) RevokeRefreshTokens(ctx context.Context, userID uint) error {
	return r.client.Del(ctx, refreshTokenKey(userID)).Err()
}
