package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goldendrop/storefront/internal/brevo"
	"github.com/goldendrop/storefront/internal/cart"
	"github.com/goldendrop/storefront/internal/config"
	"github.com/goldendrop/storefront/internal/event"
	"github.com/goldendrop/storefront/internal/payment"
	apperrors "github.com/goldendrop/storefront/pkg/errors"
	"github.com/goldendrop/storefront/pkg/validator"
)

// ShippingContact is the delivery information collected on the checkout form.
type ShippingContact struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country"`
}

// CheckoutInput is the request to hand a cart off to the payment processor.
// TestMode substitutes the configured test price reference for every line so
// the full flow can be exercised without live price objects.
type CheckoutInput struct {
	Contact  ShippingContact `json:"contact"`
	TestMode bool            `json:"test_mode"`
}

// CheckoutResult carries the created session back to the client for redirect.
type CheckoutResult struct {
	SessionID string `json:"id"`
	URL       string `json:"url,omitempty"`
}

// CheckoutService drives the checkout handoff: it validates the cart, builds
// the processor line items, creates the checkout session, and fires the
// non-blocking order notification.
type CheckoutService struct {
	cfg      *config.Config
	carts    *CartService
	stripe   *payment.Client
	mailer   *brevo.Client
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cfg *config.Config,
	carts *CartService,
	stripe *payment.Client,
	mailer *brevo.Client,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		cfg:      cfg,
		carts:    carts,
		stripe:   stripe,
		mailer:   mailer,
		producer: producer,
		logger:   logger,
	}
}

// CreateSession runs the checkout handoff for the cart behind the token.
// Configuration and cart validation happen before any network call; the order
// notification email and the order event are fired asynchronously and never
// block or fail the handoff.
func (s *CheckoutService) CreateSession(ctx context.Context, token string, input CheckoutInput) (*CheckoutResult, error) {
	if !s.cfg.StripeConfigured() {
		return nil, apperrors.NotConfigured("payment processing")
	}

	if input.Contact.Country == "" {
		input.Contact.Country = "Slovenija"
	}
	if err := validator.Validate(input.Contact); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	c, err := s.carts.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items, err := s.buildLineItems(c, input.TestMode)
	if err != nil {
		return nil, err
	}

	session, err := s.stripe.CreateCheckoutSession(ctx, items)
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout session creation failed",
			slog.String("cart_token", token),
			slog.Bool("test_mode", input.TestMode),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	summary := s.carts.summarize(c)

	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("cart_token", token),
		slog.String("session_id", session.ID),
		slog.Int64("total", summary.Total),
		slog.Bool("test_mode", input.TestMode),
	)

	s.notifyOrder(c, summary, input, session.ID)

	return &CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

// ConfirmSuccess handles the shopper returning from a completed payment: the
// handed-off cart is cleared so a fresh session starts clean.
func (s *CheckoutService) ConfirmSuccess(ctx context.Context, token string) error {
	return s.carts.ClearCart(ctx, token)
}

// buildLineItems maps cart lines to processor line items. Outside test mode
// every line must carry a price reference; the check happens before any
// network call so a misconfigured catalog fails fast.
func (s *CheckoutService) buildLineItems(c *cart.Cart, testMode bool) ([]payment.LineItem, error) {
	if !testMode {
		var missing []string
		for _, l := range c.Lines {
			if l.PriceRef == "" {
				missing = append(missing, fmt.Sprintf("(%s, %d g)", l.ProductID, l.Weight))
			}
		}
		if len(missing) > 0 {
			return nil, apperrors.MissingPriceRef(missing)
		}
	}

	items := make([]payment.LineItem, len(c.Lines))
	for i, l := range c.Lines {
		ref := l.PriceRef
		if testMode {
			ref = s.cfg.TestPriceRef
		}
		items[i] = payment.LineItem{PriceRef: ref, Quantity: l.Quantity}
	}
	return items, nil
}

// notifyOrder sends the order notification email and publishes the order
// event in the background. Failures are logged, never surfaced.
func (s *CheckoutService) notifyOrder(c *cart.Cart, summary *Summary, input CheckoutInput, sessionID string) {
	lines := make([]cart.Line, len(c.Lines))
	copy(lines, c.Lines)
	token := c.Token

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if s.cfg.OrderNotificationEmail != "" && s.cfg.BrevoConfigured() {
			subject, body := orderEmail(lines, summary, input)
			err := s.mailer.SendTextEmail(ctx,
				s.cfg.BrevoSenderName, s.cfg.BrevoSenderEmail,
				s.cfg.OrderNotificationEmail, subject, body)
			if err != nil {
				s.logger.ErrorContext(ctx, "order notification email failed",
					slog.String("session_id", sessionID),
					slog.String("error", err.Error()),
				)
			}
		}

		data := event.OrderSubmittedData{
			SessionID:   sessionID,
			Token:       token,
			Email:       input.Contact.Email,
			Subtotal:    summary.Subtotal,
			Shipping:    summary.Shipping,
			Total:       summary.Total,
			TotalWeight: summary.TotalWeight,
			TestMode:    input.TestMode,
		}
		for _, l := range lines {
			data.Lines = append(data.Lines, event.CartLineData{
				ProductID: l.ProductID,
				Name:      l.Name,
				Weight:    l.Weight,
				Price:     l.Price,
				Quantity:  l.Quantity,
			})
		}
		if err := s.producer.PublishOrderSubmitted(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// euros formats cents as the "X.XX" figure used in the notification email.
func euros(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// orderEmail renders the plain-text order notification sent to the beekeeper.
func orderEmail(lines []cart.Line, summary *Summary, input CheckoutInput) (subject, body string) {
	ct := input.Contact
	fullName := ct.FirstName + " " + ct.LastName

	var b strings.Builder
	b.WriteString("Nova naročilnica\n\n")
	b.WriteString("PODATKI ZA DOSTAVO:\n")
	fmt.Fprintf(&b, "Ime: %s\n", fullName)
	fmt.Fprintf(&b, "E-pošta: %s\n", ct.Email)
	fmt.Fprintf(&b, "Telefon: %s\n", ct.Phone)
	fmt.Fprintf(&b, "Naslov: %s\n", ct.Address)
	fmt.Fprintf(&b, "Mesto: %s %s\n", ct.PostalCode, ct.City)
	fmt.Fprintf(&b, "Država: %s\n", ct.Country)
	b.WriteString("\nNAROČENI IZDELKI:\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s (%s) x %d - %s €\n", l.Name, l.Label, l.Quantity, euros(l.Price*int64(l.Quantity)))
	}
	fmt.Fprintf(&b, "\nPoštnina: %s €\n", euros(summary.Shipping))
	fmt.Fprintf(&b, "SKUPAJ: %s €\n", euros(summary.Total))

	subject = "Nova naročilnica - " + fullName
	if input.TestMode {
		subject = "[TEST] " + subject
		b.WriteString("\n⚠️ TESTNO NAROČILO\n")
	}

	return subject, b.String()
}
