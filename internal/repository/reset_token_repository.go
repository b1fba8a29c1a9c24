package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound is returned for unknown or expired reset tokens.
var ErrResetTokenNotFound = errors.New("reset token not found")

// PasswordResetRepository manages short-lived password reset tokens. Tokens
// live in Redis under a TTL, so expiry needs no sweeper.
type PasswordResetRepository interface {
	Store(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type passwordResetRepository struct {
	client *redis.Client
}

// NewPasswordResetRepository constructs a Redis-backed implementation.
func NewPasswordResetRepository(client *redis.Client) PasswordResetRepository {
	return &passwordResetRepository{client: client}
}

func resetKey(token string) string {
	return fmt.Sprintf("password_reset:%s", token)
}

func (r *passwordResetRepository) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, resetKey(token), userID, ttl).Err()
}

// Consume returns the user ID bound to the token and deletes it so a token
// can be used at most once.
func (r *passwordResetRepository) Consume(ctx context.Context, token string) (string, error) {
	key := resetKey(token)
	userID, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetTokenNotFound
		}
		return "", err
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return "", err
	}
	return userID, nil
}
