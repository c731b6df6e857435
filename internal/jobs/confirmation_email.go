package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/openseat/server/internal/email"
)

// ConfirmationSender delivers a rendered registration confirmation.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, data email.ConfirmationData) error
}

// ConfirmationEmailArgs carries a snapshot of the registration and event at
// enqueue time, so the email stays correct even if the event row changes
// before the job runs.
type ConfirmationEmailArgs struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Course     string `json:"course,omitempty"`
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
	EventTime  string `json:"event_time,omitempty"`
	Venue      string `json:"venue"`
}

func (ConfirmationEmailArgs) Kind() string { return JobKindConfirmationEmail }

// ConfirmationEmailWorker sends the registration confirmation email.
type ConfirmationEmailWorker struct {
	river.WorkerDefaults[ConfirmationEmailArgs]
	Sender ConfirmationSender
	Logger *slog.Logger
}

func (ConfirmationEmailWorker) Kind() string { return JobKindConfirmationEmail }

func (w ConfirmationEmailWorker) Work(ctx context.Context, job *river.Job[ConfirmationEmailArgs]) error {
	if w.Sender == nil {
		return fmt.Errorf("confirmation sender not configured")
	}

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	data := email.ConfirmationData{
		Name:       job.Args.Name,
		Email:      job.Args.Email,
		Course:     job.Args.Course,
		EventTitle: job.Args.EventTitle,
		EventDate:  job.Args.EventDate,
		EventTime:  job.Args.EventTime,
		Venue:      job.Args.Venue,
	}
	if err := w.Sender.SendConfirmation(ctx, data); err != nil {
		logger.Error("failed to send confirmation email",
			"to", job.Args.Email,
			"error", err,
		)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	return nil
}
