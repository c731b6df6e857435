package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/openseat/server/internal/domain/registration"
)

var _ registration.OTPRepository = (*OTPRepository)(nil)

func (r *OTPRepository) Create(ctx context.Context, email, code string, expiresAt time.Time) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO otp_verifications (email, otp, expires_at) VALUES ($1, $2, $3)`,
		email, code, expiresAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// GetByEmailAndCode matches email and code exactly. A miss is always
// registration.ErrInvalidOTP; the caller cannot tell a wrong code from a
// never-issued one.
func (r *OTPRepository) GetByEmailAndCode(ctx context.Context, email, code string) (*registration.OTPVerification, error) {
	var (
		row       registration.OTPVerification
		expiresAt pgtype.Timestamptz
	)
	err := r.queryer().QueryRow(ctx, `
SELECT id, email, otp, expires_at FROM otp_verifications WHERE email = $1 AND otp = $2`,
		email, code,
	).Scan(&row.ID, &row.Email, &row.Code, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registration.ErrInvalidOTP
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	if expiresAt.Valid {
		row.ExpiresAt = expiresAt.Time
	}
	return &row, nil
}

func (r *OTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.queryer().Exec(ctx, `DELETE FROM otp_verifications WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete otp by email: %w", err)
	}
	return nil
}

func (r *OTPRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.queryer().Exec(ctx, `DELETE FROM otp_verifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete otp by id: %w", err)
	}
	return nil
}

// DeleteExpired removes every row past its expiry. Used by the periodic
// cleanup job; expired rows are also deleted on sight during verification.
func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM otp_verifications WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}
