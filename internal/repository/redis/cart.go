package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goldendrop/storefront/internal/cart"
	apperrors "github.com/goldendrop/storefront/pkg/errors"
)

const cartKeyPrefix = "cart:"

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves a cart by client token. A corrupt persisted payload is
// discarded: the error is logged and the cart is treated as absent so the
// caller starts from an empty cart instead of failing the request.
func (r *CartRepository) Get(ctx context.Context, token string) (*cart.Cart, error) {
	key := cartKeyPrefix + token

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", token)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		r.logger.WarnContext(ctx, "discarding corrupt cart payload",
			slog.String("cart_token", token),
			slog.String("error", err.Error()),
		)
		_ = r.client.Del(ctx, key).Err()
		return nil, apperrors.NotFound("cart", token)
	}

	return &c, nil
}

// Save persists a cart to Redis with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	key := cartKeyPrefix + c.Token

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes a cart from Redis by client token.
func (r *CartRepository) Delete(ctx context.Context, token string) error {
	key := cartKeyPrefix + token

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
