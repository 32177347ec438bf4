package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goldendrop/storefront/internal/cart"
	"github.com/goldendrop/storefront/internal/catalog"
	"github.com/goldendrop/storefront/internal/event"
	"github.com/goldendrop/storefront/internal/repository"
	"github.com/goldendrop/storefront/internal/shipping"
	apperrors "github.com/goldendrop/storefront/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerLine is the maximum quantity allowed for a single cart line.
	MaxQuantityPerLine = 100
	// MaxLinesPerCart is the maximum number of distinct lines allowed in a cart.
	MaxLinesPerCart = 50
)

// AddItemInput holds the parameters for adding a jar to the cart. Weight 0
// resolves to the product's default tier.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Weight    int    `json:"weight" validate:"gte=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// Summary is the priced view of a cart: subtotal, total jar weight, the
// shipping cost from the weight table, and the grand total, all in cents.
type Summary struct {
	Subtotal    int64 `json:"subtotal"`
	TotalWeight int   `json:"total_weight"`
	Shipping    int64 `json:"shipping"`
	Total       int64 `json:"total"`
	ItemCount   int   `json:"item_count"`
}

// CartService implements the business logic for cart operations. Every
// mutation follows load → normalize → mutate → persist; the persisted state
// after a save is whatever the last writer stored.
type CartService struct {
	repo     repository.CartRepository
	catalog  *catalog.Catalog
	shipping *shipping.Table
	producer *event.Producer
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(
	repo repository.CartRepository,
	cat *catalog.Catalog,
	table *shipping.Table,
	producer *event.Producer,
	logger *slog.Logger,
	cartTTL time.Duration,
) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  cat,
		shipping: table,
		producer: producer,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the cart for a client token. If no cart exists (or the
// persisted payload was corrupt), returns an empty cart.
func (s *CartService) GetCart(ctx context.Context, token string) (*cart.Cart, error) {
	if token == "" {
		return nil, apperrors.InvalidInput("cart token is required")
	}

	c, err := s.getOrCreateCart(ctx, token)
	if err != nil {
		return nil, err
	}

	s.normalize(ctx, c)
	return c, nil
}

// AddItem adds a jar to the cart. An existing line with the same product and
// weight merges by increasing quantity; otherwise a new line is appended,
// preserving insertion order.
func (s *CartService) AddItem(ctx context.Context, token string, input AddItemInput) (*cart.Cart, error) {
	if token == "" {
		return nil, apperrors.InvalidInput("cart token is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	product := s.catalog.Get(input.ProductID)
	if product == nil {
		return nil, apperrors.NotFound("product", input.ProductID)
	}
	if product.SoldOut {
		return nil, apperrors.InvalidInput(fmt.Sprintf("product %s is sold out", input.ProductID))
	}

	variant, err := catalog.ResolveVariant(product, input.Weight)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	c, err := s.getOrCreateCart(ctx, token)
	if err != nil {
		return nil, err
	}
	s.normalize(ctx, c)

	if idx := c.FindLineIndex(product.ID, variant.Weight); idx >= 0 {
		newQty := c.Lines[idx].Quantity + input.Quantity
		if newQty > MaxQuantityPerLine {
			return nil, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerLine))
		}
		c.Lines[idx].Quantity = newQty
		// Refresh display fields in case the catalog changed.
		c.Lines[idx].Name = product.Name
		c.Lines[idx].Price = variant.Price
		c.Lines[idx].Label = variant.Label
		c.Lines[idx].PriceRef = variant.PriceRef
		c.Lines[idx].Image = product.Image
	} else {
		if len(c.Lines) >= MaxLinesPerCart {
			return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d lines", MaxLinesPerCart))
		}
		c.Lines = append(c.Lines, cart.Line{
			ProductID: product.ID,
			Name:      product.Name,
			Weight:    variant.Weight,
			Label:     variant.Label,
			Price:     variant.Price,
			Quantity:  input.Quantity,
			PriceRef:  variant.PriceRef,
			Image:     product.Image,
		})
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, c)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("cart_token", token),
		slog.String("product_id", product.ID),
		slog.Int("weight", variant.Weight),
		slog.Int("quantity", input.Quantity),
	)

	return c, nil
}

// UpdateQuantity applies a signed delta to the line identified by product and
// weight. A resulting quantity of zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, token, productID string, weight, delta int) (*cart.Cart, error) {
	if token == "" {
		return nil, apperrors.InvalidInput("cart token is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if delta == 0 {
		return nil, apperrors.InvalidInput("delta must not be zero")
	}

	c, err := s.getOrCreateCart(ctx, token)
	if err != nil {
		return nil, err
	}
	s.normalize(ctx, c)

	idx := c.FindLineIndex(productID, weight)
	if idx < 0 {
		return nil, apperrors.NotFound("cart line", fmt.Sprintf("%s/%d", productID, weight))
	}

	newQty := c.Lines[idx].Quantity + delta
	switch {
	case newQty <= 0:
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	case newQty > MaxQuantityPerLine:
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	default:
		c.Lines[idx].Quantity = newQty
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, c)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("cart_token", token),
		slog.String("product_id", productID),
		slog.Int("weight", weight),
		slog.Int("delta", delta),
	)

	return c, nil
}

// RemoveLine removes the line identified by product and weight. Removing a
// line that is not in the cart is a no-op: the cart comes back unchanged, so
// retried deletes stay idempotent.
func (s *CartService) RemoveLine(ctx context.Context, token, productID string, weight int) (*cart.Cart, error) {
	if token == "" {
		return nil, apperrors.InvalidInput("cart token is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	c, err := s.getOrCreateCart(ctx, token)
	if err != nil {
		return nil, err
	}
	s.normalize(ctx, c)

	idx := c.FindLineIndex(productID, weight)
	if idx < 0 {
		return c, nil
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, c)

	s.logger.InfoContext(ctx, "line removed from cart",
		slog.String("cart_token", token),
		slog.String("product_id", productID),
		slog.Int("weight", weight),
	)

	return c, nil
}

// ClearCart removes the cart for the token.
func (s *CartService) ClearCart(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.InvalidInput("cart token is required")
	}

	if err := s.repo.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("cart_token", token),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("cart_token", token),
	)

	return nil
}

// Summarize prices the cart: subtotal, total weight, shipping from the
// weight table, grand total.
func (s *CartService) Summarize(ctx context.Context, token string) (*Summary, error) {
	c, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.summarize(c), nil
}

func (s *CartService) summarize(c *cart.Cart) *Summary {
	subtotal := c.Subtotal()
	grams := c.TotalWeight()
	cost := s.shipping.Cost(grams)
	return &Summary{
		Subtotal:    subtotal,
		TotalWeight: grams,
		Shipping:    cost,
		Total:       subtotal + cost,
		ItemCount:   c.ItemCount(),
	}
}

// normalize repairs lines rehydrated from older persisted payloads: missing
// weights fall back to the product's default tier, missing labels are
// rebuilt, and lines that no longer satisfy the quantity invariant are
// dropped.
func (s *CartService) normalize(ctx context.Context, c *cart.Cart) {
	lines := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Quantity < 1 {
			s.logger.WarnContext(ctx, "dropping cart line with invalid quantity",
				slog.String("cart_token", c.Token),
				slog.String("product_id", l.ProductID),
				slog.Int("quantity", l.Quantity),
			)
			continue
		}
		if l.Weight == 0 {
			l.Weight = catalog.DefaultWeight
			if p := s.catalog.Get(l.ProductID); p != nil {
				if v, err := catalog.ResolveVariant(p, 0); err == nil {
					l.Weight = v.Weight
					l.Price = v.Price
					l.PriceRef = v.PriceRef
				}
			}
		}
		if l.Label == "" {
			l.Label = catalog.WeightLabel(l.Weight)
		}
		lines = append(lines, l)
	}
	c.Lines = lines
	if c.Currency == "" {
		c.Currency = "EUR"
	}
}

func (s *CartService) save(ctx context.Context, c *cart.Cart) error {
	now := time.Now().UTC()
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(s.cartTTL)
	if err := s.repo.Save(ctx, c); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartService) publishUpdated(ctx context.Context, c *cart.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("cart_token", c.Token),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) getOrCreateCart(ctx context.Context, token string) (*cart.Cart, error) {
	c, err := s.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return cart.New(token, s.cartTTL), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return c, nil
}
