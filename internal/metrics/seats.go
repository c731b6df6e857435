package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openseat/server/internal/domain/event"
)

// SeatGaugeUpdater periodically refreshes the seat gauges from the ledger.
type SeatGaugeUpdater struct {
	repo     event.Repository
	interval time.Duration
	logger   zerolog.Logger
}

func NewSeatGaugeUpdater(repo event.Repository, interval time.Duration, logger zerolog.Logger) *SeatGaugeUpdater {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SeatGaugeUpdater{
		repo:     repo,
		interval: interval,
		logger:   logger.With().Str("component", "seat_gauges").Logger(),
	}
}

// Run refreshes the gauges until ctx is canceled.
func (u *SeatGaugeUpdater) Run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	u.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.refresh(ctx)
		}
	}
}

func (u *SeatGaugeUpdater) refresh(ctx context.Context) {
	stats, err := u.repo.Stats(ctx)
	if err != nil {
		u.logger.Warn().Err(err).Msg("failed to refresh seat gauges")
		return
	}
	SeatsTotal.Set(float64(stats.TotalSeats))
	SeatsBooked.Set(float64(stats.BookedSeats))
}
