package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	sessionKeyPrefix = "login:user:token"
	sessionTTL       = 30 * time.Minute
)

// SessionRepository 单点登录：当前有效的 access token 放 redis，中间件比对
type SessionRepository struct{}

func (r *SessionRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", sessionKeyPrefix, userID)
}

func (r *SessionRepository) Save(ctx context.Context, userID uint64, token string) error {
	if err := Client.Set(ctx, r.key(userID), token, sessionTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := Client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend 校验通过后顺延过期时间
func (r *SessionRepository) Extend(ctx context.Context, userID uint64) error {
	return Client.Expire(ctx, r.key(userID), sessionTTL).Err()
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	return Client.Del(ctx, r.key(userID)).Err()
}
