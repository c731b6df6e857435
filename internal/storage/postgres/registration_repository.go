package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/openseat/server/internal/domain/event"
	"github.com/openseat/server/internal/domain/registration"
)

var _ registration.Repository = (*RegistrationRepository)(nil)

const uniqueViolationCode = "23505"

// Create inserts the registration and claims a seat inside one transaction.
// The seat claim runs first so a full event rolls back before the insert;
// the unique email index maps to ErrAlreadyRegistered either way.
func (r *RegistrationRepository) Create(ctx context.Context, params registration.CreateParams) (*registration.Registration, error) {
	if r.tx != nil {
		return r.createIn(ctx, r.tx, params)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin registration tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := r.createIn(ctx, tx, params)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit registration tx: %w", err)
	}
	return created, nil
}

func (r *RegistrationRepository) createIn(ctx context.Context, tx pgx.Tx, params registration.CreateParams) (*registration.Registration, error) {
	var eventID int64
	err := tx.QueryRow(ctx, `SELECT id FROM event LIMIT 1`).Scan(&eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrNotFound
		}
		return nil, fmt.Errorf("lookup event: %w", err)
	}

	if err := claimSeat(ctx, tx, eventID); err != nil {
		return nil, err
	}

	created := &registration.Registration{
		Name:   params.Name,
		Email:  params.Email,
		Phone:  params.Phone,
		Course: params.Course,
	}
	var createdAt pgtype.Timestamptz
	err = tx.QueryRow(ctx, `
INSERT INTO registrations (name, email, phone, course)
VALUES ($1, $2, $3, NULLIF($4, ''))
RETURNING id, created_at`,
		params.Name, params.Email, params.Phone, params.Course,
	).Scan(&created.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, registration.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	if createdAt.Valid {
		created.CreatedAt = createdAt.Time
	}
	return created, nil
}

func (r *RegistrationRepository) GetByEmail(ctx context.Context, email string) (*registration.Registration, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, name, email, phone, course, created_at FROM registrations WHERE email = $1`, email)
	return scanRegistration(row)
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*registration.Registration, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, name, email, phone, course, created_at FROM registrations WHERE id = $1`, id)
	return scanRegistration(row)
}

func (r *RegistrationRepository) List(ctx context.Context) ([]registration.Registration, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, name, email, phone, course, created_at
  FROM registrations
 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	items := make([]registration.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		items = append(items, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return items, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registration.ErrNotFound
	}
	return nil
}

func scanRegistration(row pgx.Row) (*registration.Registration, error) {
	var (
		reg       registration.Registration
		course    *string
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&reg.ID, &reg.Name, &reg.Email, &reg.Phone, &course, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registration.ErrNotFound
		}
		return nil, err
	}
	if course != nil {
		reg.Course = *course
	}
	if createdAt.Valid {
		reg.CreatedAt = createdAt.Time
	}
	return &reg, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
