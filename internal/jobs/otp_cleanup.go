package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/openseat/server/internal/domain/registration"
)

// OTPCleanupArgs defines the job for purging expired verification codes.
type OTPCleanupArgs struct{}

func (OTPCleanupArgs) Kind() string { return JobKindOTPCleanup }

// OTPCleanupWorker removes verification codes past their expiry. Expired
// codes are also deleted on sight during verification; this job keeps the
// table from accumulating rows for emails that never verified.
type OTPCleanupWorker struct {
	river.WorkerDefaults[OTPCleanupArgs]
	OTPs   registration.OTPRepository
	Logger *slog.Logger
}

func (OTPCleanupWorker) Kind() string { return JobKindOTPCleanup }

func (w OTPCleanupWorker) Work(ctx context.Context, job *river.Job[OTPCleanupArgs]) error {
	if w.OTPs == nil {
		return fmt.Errorf("otp repository not configured")
	}

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	deleted, err := w.OTPs.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Error("failed to delete expired verification codes",
			"attempt", job.Attempt,
			"error", err,
		)
		return fmt.Errorf("delete expired verification codes: %w", err)
	}

	if deleted > 0 {
		logger.Info("deleted expired verification codes", "deleted_count", deleted)
	}
	return nil
}

// NewWorkers registers every worker the server runs.
func NewWorkers(sender ConfirmationSender, otps registration.OTPRepository, logger *slog.Logger) *river.Workers {
	workers := river.NewWorkers()
	river.AddWorker[ConfirmationEmailArgs](workers, ConfirmationEmailWorker{Sender: sender, Logger: logger})
	river.AddWorker[OTPCleanupArgs](workers, OTPCleanupWorker{OTPs: otps, Logger: logger})
	return workers
}
