package registration

import (
	"context"
	"time"
)

type Registration struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Course    string    `json:"course,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OTPVerification is a short-lived capability token proving control of a
// domain-validated email. At most one live row exists per email.
type OTPVerification struct {
	ID        int64
	Email     string
	Code      string
	ExpiresAt time.Time
}

type CreateParams struct {
	Name   string
	Email  string
	Phone  string
	Course string
}

// Repository persists registrations. Create atomically inserts the row and
// claims a seat in the same store transaction: it returns
// ErrAlreadyRegistered on the unique email index, event.ErrFull when no free
// seat remains, and event.ErrNotFound when no event row is seeded. Either
// both effects commit or neither does, which is what closes the overbooking
// window between capacity check and increment.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Registration, error)
	GetByEmail(ctx context.Context, email string) (*Registration, error)
	GetByID(ctx context.Context, id int64) (*Registration, error)
	List(ctx context.Context) ([]Registration, error)
	Delete(ctx context.Context, id int64) error
}

// OTPRepository stores pending verification codes keyed by email.
type OTPRepository interface {
	Create(ctx context.Context, email, code string, expiresAt time.Time) error
	GetByEmailAndCode(ctx context.Context, email, code string) (*OTPVerification, error)
	DeleteByEmail(ctx context.Context, email string) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sender delivers the OTP email synchronously. Failure aborts issuance.
type Sender interface {
	SendOTP(ctx context.Context, to, code string, expiry time.Duration) error
}

// Confirmation is the snapshot handed to the background confirmation-email
// job. It carries everything the template needs so the worker never has to
// re-read the event row.
type Confirmation struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Course     string `json:"course,omitempty"`
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
	EventTime  string `json:"event_time,omitempty"`
	Venue      string `json:"venue"`
}

// ConfirmationEnqueuer queues the fire-and-forget confirmation email.
// Enqueue failure is logged by the caller and never surfaced.
type ConfirmationEnqueuer interface {
	EnqueueConfirmation(ctx context.Context, confirmation Confirmation) error
}
