// Package email delivers verification codes through the Resend API. With
// email disabled (the development default) codes are logged instead of sent.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/campus-events/server/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

type Service struct {
	config config.EmailConfig
	client *resend.Client
	logger zerolog.Logger
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
	}

	s := &Service{
		config: cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled {
		s.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return s, nil
}

// SendVerificationCode emails the 6-digit code to a freshly registered
// account.
func (s *Service) SendVerificationCode(ctx context.Context, to string, code string) error {
	if err := validateAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		s.logger.Info().Str("to", to).Str("code", code).Msg("email disabled, verification code logged only")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{to},
		Subject: "Your verification code",
		Html: fmt.Sprintf(
			"<p>Your campus events verification code is <strong>%s</strong>. It expires in 15 minutes.</p>",
			code,
		),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
		}
		return fmt.Errorf("send verification email: %w", err)
	}

	s.logger.Info().Str("email_id", sent.Id).Str("to", to).Msg("verification email sent")
	return nil
}

func validateAddress(address string) error {
	_, err := mail.ParseAddress(address)
	return err
}
