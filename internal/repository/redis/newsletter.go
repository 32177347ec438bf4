package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const newsletterKeyPrefix = "newsletter:"

// NewsletterRepository implements repository.NewsletterRepository using Redis.
// Decisions expire after the configured TTL (a year, mirroring the cookie the
// storefront used to set), after which the prompt may show again.
type NewsletterRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNewsletterRepository creates a new Redis-backed newsletter decision store.
func NewNewsletterRepository(client *redis.Client, ttl time.Duration) *NewsletterRepository {
	return &NewsletterRepository{
		client: client,
		ttl:    ttl,
	}
}

// GetDecision returns the persisted decision for a visitor token, or "" when
// none is recorded.
func (r *NewsletterRepository) GetDecision(ctx context.Context, token string) (string, error) {
	val, err := r.client.Get(ctx, newsletterKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis get newsletter decision: %w", err)
	}
	return val, nil
}

// SaveDecision records a decision for a visitor token with the decision TTL.
func (r *NewsletterRepository) SaveDecision(ctx context.Context, token, decision string) error {
	if err := r.client.Set(ctx, newsletterKeyPrefix+token, decision, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set newsletter decision: %w", err)
	}
	return nil
}
