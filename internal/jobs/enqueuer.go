package jobs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/openseat/server/internal/domain/registration"
)

// Enqueuer inserts confirmation email jobs for committed registrations.
type Enqueuer struct {
	client *river.Client[pgx.Tx]
}

func NewEnqueuer(client *river.Client[pgx.Tx]) *Enqueuer {
	return &Enqueuer{client: client}
}

var _ registration.ConfirmationEnqueuer = (*Enqueuer)(nil)

func (e *Enqueuer) EnqueueConfirmation(ctx context.Context, c registration.Confirmation) error {
	if e.client == nil {
		return fmt.Errorf("job client not configured")
	}

	args := ConfirmationEmailArgs{
		Name:       c.Name,
		Email:      c.Email,
		Course:     c.Course,
		EventTitle: c.EventTitle,
		EventDate:  c.EventDate,
		EventTime:  c.EventTime,
		Venue:      c.Venue,
	}
	opts := InsertOptsForKind(JobKindConfirmationEmail)
	if _, err := e.client.Insert(ctx, args, &opts); err != nil {
		return fmt.Errorf("enqueue confirmation email: %w", err)
	}
	return nil
}
