package repository

import (
	"context"

	"github.com/goldendrop/storefront/internal/cart"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its client token.
	Get(ctx context.Context, token string) (*cart.Cart, error)

	// Save persists a cart, overwriting any existing cart for the token.
	Save(ctx context.Context, c *cart.Cart) error

	// Delete removes a cart from the store by the client token.
	Delete(ctx context.Context, token string) error
}

// Newsletter decision values persisted per visitor token. DecisionDeclined
// uses the historical wire value "no_discount".
const (
	DecisionSubscribed = "subscribed"
	DecisionDeclined   = "no_discount"
)

// NewsletterRepository persists the visitor's newsletter-prompt decision.
type NewsletterRepository interface {
	// GetDecision returns the persisted decision for a visitor token, or ""
	// when no decision has been recorded.
	GetDecision(ctx context.Context, token string) (string, error)

	// SaveDecision records a decision for a visitor token.
	SaveDecision(ctx context.Context, token, decision string) error
}
