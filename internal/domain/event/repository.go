package event

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

// ErrFull is returned when every seat is booked. The authoritative check is
// the conditional increment in the store; callers treat the pre-read as a
// fast-fail only.
var ErrFull = errors.New("event is full")

// ErrCapacityBelowBooked is returned when an admin tries to shrink
// total_seats below the current booked count.
var ErrCapacityBelowBooked = errors.New("total seats cannot be below booked seats")

// Event is the singleton event row. booked_seats never exceeds total_seats
// after a successful operation; the store enforces this with a conditional
// update plus a CHECK constraint.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time,omitempty"`
	Venue       string    `json:"venue"`
	TotalSeats  int       `json:"total_seats"`
	BookedSeats int       `json:"booked_seats"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpdateParams struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
	Venue       string
	TotalSeats  int
}

type Stats struct {
	TotalSeats         int `json:"totalSeats"`
	BookedSeats        int `json:"bookedSeats"`
	RemainingSeats     int `json:"remainingSeats"`
	TotalRegistrations int `json:"totalRegistrations"`
}

// Repository is the seat ledger plus event persistence. IncrementBooked is a
// single atomic conditional update: it claims a seat only while free capacity
// remains and returns ErrFull otherwise. DecrementBooked floors at zero and
// never fails on an already-empty ledger.
type Repository interface {
	Get(ctx context.Context) (*Event, error)
	Update(ctx context.Context, params UpdateParams) (*Event, error)
	IncrementBooked(ctx context.Context, id int64) error
	DecrementBooked(ctx context.Context, id int64) error
	Stats(ctx context.Context) (Stats, error)
}
