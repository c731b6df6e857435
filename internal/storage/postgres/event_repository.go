package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/openseat/server/internal/domain/event"
)

var _ event.Repository = (*EventRepository)(nil)

const eventColumns = `id, title, description, date, time, venue, total_seats, booked_seats, created_at, updated_at`

func (r *EventRepository) Get(ctx context.Context) (*event.Event, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+eventColumns+` FROM event LIMIT 1`)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

func (r *EventRepository) Update(ctx context.Context, params event.UpdateParams) (*event.Event, error) {
	row := r.queryer().QueryRow(ctx, `
UPDATE event
   SET title = $1,
       description = NULLIF($2, ''),
       date = $3,
       time = NULLIF($4, ''),
       venue = $5,
       total_seats = $6,
       updated_at = now()
 WHERE id = (SELECT id FROM event LIMIT 1)
RETURNING `+eventColumns,
		params.Title,
		params.Description,
		params.Date,
		params.Time,
		params.Venue,
		params.TotalSeats,
	)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return ev, nil
}

// IncrementBooked claims one seat with a single conditional update. Zero
// rows affected means either the event row is gone or no free seat remained;
// the two are told apart with a follow-up existence probe.
func (r *EventRepository) IncrementBooked(ctx context.Context, id int64) error {
	return claimSeat(ctx, r.queryer(), id)
}

// DecrementBooked releases one seat, floored at zero.
func (r *EventRepository) DecrementBooked(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE event SET booked_seats = GREATEST(booked_seats - 1, 0), updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("decrement booked seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Stats(ctx context.Context) (event.Stats, error) {
	var stats event.Stats
	err := r.queryer().QueryRow(ctx, `
SELECT e.total_seats,
       e.booked_seats,
       e.total_seats - e.booked_seats,
       (SELECT count(*) FROM registrations)
  FROM event e
 LIMIT 1`).Scan(&stats.TotalSeats, &stats.BookedSeats, &stats.RemainingSeats, &stats.TotalRegistrations)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Stats{}, event.ErrNotFound
		}
		return event.Stats{}, fmt.Errorf("event stats: %w", err)
	}
	return stats, nil
}

// claimSeat is the seat ledger's only increment path: the WHERE clause keeps
// booked_seats ≤ total_seats under concurrent callers without any
// read-then-write window. Shared by the event repository and the
// registration insert transaction.
func claimSeat(ctx context.Context, q queryer, id int64) error {
	tag, err := q.Exec(ctx, `
UPDATE event
   SET booked_seats = booked_seats + 1, updated_at = now()
 WHERE id = $1 AND booked_seats < total_seats`, id)
	if err != nil {
		return fmt.Errorf("claim seat: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM event WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("claim seat probe: %w", err)
	}
	if !exists {
		return event.ErrNotFound
	}
	return event.ErrFull
}

func scanEvent(row pgx.Row) (*event.Event, error) {
	var (
		ev          event.Event
		description *string
		timeLabel   *string
		date        pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&ev.ID,
		&ev.Title,
		&description,
		&date,
		&timeLabel,
		&ev.Venue,
		&ev.TotalSeats,
		&ev.BookedSeats,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if description != nil {
		ev.Description = *description
	}
	if timeLabel != nil {
		ev.Time = *timeLabel
	}
	if date.Valid {
		ev.Date = date.Time
	}
	if createdAt.Valid {
		ev.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		ev.UpdatedAt = updatedAt.Time
	}
	return &ev, nil
}
