package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// sendViaResend delivers one rendered message through the Resend API. Both
// the verification-code and confirmation paths land here when the provider
// is "resend". Rate limiting is surfaced to the caller, not retried: the OTP
// path treats a failed send as fatal, and the confirmation job runs with a
// single attempt.
func (s *Service) sendViaResend(ctx context.Context, to, subject, htmlBody string) error {
	if s.resendClient == nil {
		return fmt.Errorf("resend provider selected but client not configured")
	}

	sent, err := s.resendClient.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("recipient", to).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limited")
			return fmt.Errorf("resend rate limited, resets in %s seconds: %w", rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend send: %w", err)
	}

	s.logger.Debug().
		Str("message_id", sent.Id).
		Str("recipient", to).
		Str("subject", subject).
		Msg("resend delivery accepted")
	return nil
}
