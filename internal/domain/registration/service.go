// Package registration implements the OTP-gated seat reservation flow:
// issuing and verifying one-time codes, writing registrations against the
// finite seat pool, and the admin-side listing and deletion of registrations.
//
// Core operations:
//   - IssueOTP: domain check, duplicate and capacity fast-fail, code
//     generation, prior-code invalidation, synchronous OTP email
//   - VerifyOTP: read-check of the stored code; non-consuming
//   - Register: full re-validation, atomic insert-plus-seat-claim,
//     OTP cleanup, async confirmation email
//   - Delete: admin removal with best-effort seat release
//
// Duplicate and capacity checks are always re-verified at write time; the
// checks done at OTP issuance only exist to fail fast before sending email.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/openseat/server/internal/domain/event"
)

type Config struct {
	AllowedDomain string
	OTPExpiry     time.Duration
}

type Service struct {
	regs          Repository
	otps          OTPRepository
	events        event.Repository
	sender        Sender
	confirmations ConfirmationEnqueuer
	validate      *validator.Validate
	logger        zerolog.Logger
	cfg           Config
}

// NewService wires the registration orchestrator. sender must not be nil;
// confirmations may be nil, in which case confirmation emails are skipped.
func NewService(
	regs Repository,
	otps OTPRepository,
	events event.Repository,
	sender Sender,
	confirmations ConfirmationEnqueuer,
	cfg Config,
	logger zerolog.Logger,
) *Service {
	if cfg.OTPExpiry <= 0 {
		cfg.OTPExpiry = 10 * time.Minute
	}
	return &Service{
		regs:          regs,
		otps:          otps,
		events:        events,
		sender:        sender,
		confirmations: confirmations,
		validate:      validator.New(),
		logger:        logger.With().Str("component", "registration").Logger(),
		cfg:           cfg,
	}
}

// IssueOTP generates and emails a six-digit code for the address, deleting
// any previously issued code first. It fails fast when the email is already
// registered or the event is full, so no pointless email goes out. The email
// send is synchronous and fatal on failure. Returns the normalized email.
func (s *Service) IssueOTP(ctx context.Context, email string) (string, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return "", ErrMissingFields
	}
	if err := ValidateDomain(normalized, s.cfg.AllowedDomain); err != nil {
		return "", err
	}

	if _, err := s.regs.GetByEmail(ctx, normalized); err == nil {
		return "", ErrAlreadyRegistered
	} else if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("%w: check existing registration: %w", ErrStoreFailure, err)
	}

	ev, err := s.events.Get(ctx)
	if err != nil {
		return "", err
	}
	if ev.BookedSeats >= ev.TotalSeats {
		return "", event.ErrFull
	}

	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(s.cfg.OTPExpiry)

	// At most one live code per email: prior codes become unverifiable now.
	if err := s.otps.DeleteByEmail(ctx, normalized); err != nil {
		return "", fmt.Errorf("%w: invalidate prior otp: %w", ErrStoreFailure, err)
	}
	if err := s.otps.Create(ctx, normalized, code, expiresAt); err != nil {
		return "", fmt.Errorf("%w: store otp: %w", ErrStoreFailure, err)
	}

	if err := s.sender.SendOTP(ctx, normalized, code, s.cfg.OTPExpiry); err != nil {
		s.logger.Error().Err(err).Str("email", normalized).Msg("otp email send failed")
		return "", fmt.Errorf("%w: %w", ErrNotificationFailure, err)
	}

	s.logger.Info().Str("email", normalized).Time("expires_at", expiresAt).Msg("otp issued")
	return normalized, nil
}

// VerifyOTP checks a presented code against the stored one. A lookup miss is
// always ErrInvalidOTP, whether the code is wrong or none was ever issued.
// An expired row is deleted on sight. The check does not consume the row on
// success: the same code stays verifiable until Register deletes it or it
// expires, which lets the client move from the verify step to the form
// submit step without losing state.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	normalized := NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if normalized == "" || code == "" {
		return ErrMissingFields
	}

	row, err := s.otps.GetByEmailAndCode(ctx, normalized, code)
	if err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("%w: lookup otp: %w", ErrStoreFailure, err)
	}

	if time.Now().After(row.ExpiresAt) {
		if err := s.otps.DeleteByID(ctx, row.ID); err != nil {
			s.logger.Warn().Err(err).Int64("otp_id", row.ID).Msg("expired otp cleanup failed")
		}
		return ErrOTPExpired
	}
	return nil
}

type RegisterParams struct {
	Name   string `validate:"required"`
	Email  string `validate:"required"`
	Phone  string `validate:"required"`
	Course string
	OTP    string `validate:"required"`
}

// Register performs the full write-time sequence: field and domain
// validation, an independent OTP re-check, the duplicate fast-fail, and the
// atomic insert-plus-seat-claim in the store. Seat accounting and the
// registration row commit together; OTP cleanup and the confirmation email
// are best-effort afterwards.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Registration, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, ErrMissingFields
	}

	normalized := NormalizeEmail(params.Email)
	if err := ValidateDomain(normalized, s.cfg.AllowedDomain); err != nil {
		return nil, err
	}

	phone, err := NormalizePhone(params.Phone)
	if err != nil {
		return nil, err
	}

	// Re-validate the OTP independently of VerifyOTP: time has passed since
	// issuance and the earlier verify shares no state with this request.
	code := strings.TrimSpace(params.OTP)
	row, err := s.otps.GetByEmailAndCode(ctx, normalized, code)
	if err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			return nil, ErrOTPNotVerified
		}
		return nil, fmt.Errorf("%w: lookup otp: %w", ErrStoreFailure, err)
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, ErrOTPExpired
	}

	// Fast-fail on duplicates; the unique index inside Create is authoritative.
	if _, err := s.regs.GetByEmail(ctx, normalized); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: check existing registration: %w", ErrStoreFailure, err)
	}

	ev, err := s.events.Get(ctx)
	if err != nil {
		return nil, err
	}
	if ev.BookedSeats >= ev.TotalSeats {
		return nil, event.ErrFull
	}

	created, err := s.regs.Create(ctx, CreateParams{
		Name:   strings.TrimSpace(params.Name),
		Email:  normalized,
		Phone:  phone,
		Course: strings.TrimSpace(params.Course),
	})
	if err != nil {
		return nil, err
	}

	// The code is single-use in effect from here on.
	if err := s.otps.DeleteByEmail(ctx, normalized); err != nil {
		s.logger.Warn().Err(err).Str("email", normalized).Msg("otp cleanup after registration failed")
	}

	if s.confirmations != nil {
		confirmation := Confirmation{
			Name:       created.Name,
			Email:      created.Email,
			Course:     created.Course,
			EventTitle: ev.Title,
			EventDate:  ev.Date.Format("Monday, 2 January 2006"),
			EventTime:  ev.Time,
			Venue:      ev.Venue,
		}
		if err := s.confirmations.EnqueueConfirmation(ctx, confirmation); err != nil {
			s.logger.Error().Err(err).Str("email", created.Email).Msg("confirmation email enqueue failed")
		}
	}

	s.logger.Info().
		Int64("registration_id", created.ID).
		Str("email", created.Email).
		Msg("registration created")
	return created, nil
}

// List returns all registrations, newest first.
func (s *Service) List(ctx context.Context) ([]Registration, error) {
	return s.regs.List(ctx)
}

// Delete removes a registration and releases its seat. The decrement is
// best-effort: the deletion is the operation of record, and an over-count in
// booked_seats is the acceptable failure mode.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.regs.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.regs.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: delete registration: %w", ErrStoreFailure, err)
	}

	ev, err := s.events.Get(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("seat release skipped: event fetch failed")
		return nil
	}
	if err := s.events.DecrementBooked(ctx, ev.ID); err != nil {
		s.logger.Error().Err(err).Int64("event_id", ev.ID).Msg("seat release failed")
	}

	s.logger.Info().Int64("registration_id", id).Msg("registration deleted")
	return nil
}
