package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldendrop/storefront/internal/brevo"
	"github.com/goldendrop/storefront/internal/config"
	"github.com/goldendrop/storefront/internal/event"
	"github.com/goldendrop/storefront/internal/repository"
	apperrors "github.com/goldendrop/storefront/pkg/errors"
)

// PromptDelayMS is how long the storefront waits before showing the signup
// popup to an undecided visitor.
const PromptDelayMS = 3000

// Prompt tells the client whether to show the signup popup and after what
// delay.
type Prompt struct {
	Show    bool `json:"show"`
	DelayMS int  `json:"delay_ms"`
}

// SubscribeResult is returned from a successful signup: the welcome discount
// code and whether the welcome email went out.
type SubscribeResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DiscountCode string `json:"discountCode"`
	EmailSent    bool   `json:"emailSent"`
}

// NewsletterService handles the signup popup gate and the contact upsert
// against the email platform.
type NewsletterService struct {
	cfg      *config.Config
	repo     repository.NewsletterRepository
	mailer   *brevo.Client
	producer *event.Producer
	logger   *slog.Logger
}

// NewNewsletterService creates a new newsletter service.
func NewNewsletterService(
	cfg *config.Config,
	repo repository.NewsletterRepository,
	mailer *brevo.Client,
	producer *event.Producer,
	logger *slog.Logger,
) *NewsletterService {
	return &NewsletterService{
		cfg:      cfg,
		repo:     repo,
		mailer:   mailer,
		producer: producer,
		logger:   logger,
	}
}

// GetPrompt reports whether the signup popup should be shown to this visitor.
// Any recorded decision, subscribed or declined, suppresses the popup until
// the decision expires.
func (s *NewsletterService) GetPrompt(ctx context.Context, token string) (*Prompt, error) {
	if token == "" {
		return nil, apperrors.InvalidInput("visitor token is required")
	}

	decision, err := s.repo.GetDecision(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get newsletter decision: %w", err)
	}

	return &Prompt{Show: decision == "", DelayMS: PromptDelayMS}, nil
}

// Decline records that the visitor closed the popup without subscribing, so
// it stays hidden for the decision lifetime.
func (s *NewsletterService) Decline(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.InvalidInput("visitor token is required")
	}

	if err := s.repo.SaveDecision(ctx, token, repository.DecisionDeclined); err != nil {
		return fmt.Errorf("save newsletter decision: %w", err)
	}

	s.logger.InfoContext(ctx, "newsletter prompt declined",
		slog.String("visitor_token", token),
	)

	return nil
}

// Subscribe upserts the contact on the email platform, optionally sends the
// welcome email with the discount code, and records the visitor's decision.
// An already-existing contact is a success, not an error.
func (s *NewsletterService) Subscribe(ctx context.Context, token, email string) (*SubscribeResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("a valid email address is required")
	}

	if !s.cfg.BrevoConfigured() {
		return nil, apperrors.NotConfigured("newsletter signup")
	}

	upsert, err := s.mailer.UpsertContact(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "newsletter contact upsert failed",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	emailSent := false
	if upsert.IsNew && s.cfg.BrevoWelcomeTemplateID > 0 {
		err := s.mailer.SendTemplateEmail(ctx, s.cfg.BrevoWelcomeTemplateID, email,
			map[string]any{"DISCOUNT_CODE": brevo.DiscountCode})
		if err != nil {
			// The subscription stands even when the welcome email fails.
			s.logger.ErrorContext(ctx, "welcome email failed",
				slog.String("error", err.Error()),
			)
		} else {
			emailSent = true
		}
	}

	if token != "" {
		if err := s.repo.SaveDecision(ctx, token, repository.DecisionSubscribed); err != nil {
			s.logger.ErrorContext(ctx, "failed to save newsletter decision",
				slog.String("visitor_token", token),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishNewsletterSubscribed(ctx, event.NewsletterSubscribedData{
		Email:        email,
		DiscountCode: brevo.DiscountCode,
		EmailSent:    emailSent,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish newsletter.subscribed event",
			slog.String("error", err.Error()),
		)
	}

	message := "Successfully subscribed!"
	if !upsert.IsNew {
		message = "Contact updated!"
	}

	s.logger.InfoContext(ctx, "newsletter signup",
		slog.Bool("new_contact", upsert.IsNew),
		slog.Bool("email_sent", emailSent),
	)

	return &SubscribeResult{
		Success:      true,
		Message:      message,
		DiscountCode: brevo.DiscountCode,
		EmailSent:    emailSent,
	}, nil
}
