package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blocklist records logged-out token ids until they expire.
type Blocklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const redisKeyPrefix = "revoked:"

// RedisBlocklist keeps one key per revoked jti, expiring with the token.
type RedisBlocklist struct {
	Client redis.Cmdable
	now    func() time.Time
}

func NewRedisBlocklist(client redis.Cmdable) *RedisBlocklist {
	return &RedisBlocklist{Client: client, now: time.Now}
}

func (b *RedisBlocklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		// already expired, the token is rejected on its own
		return nil
	}
	return b.Client.Set(ctx, redisKeyPrefix+jti, b.now().UTC().Format(time.RFC3339), ttl).Err()
}

func (b *RedisBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := b.Client.Get(ctx, redisKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
