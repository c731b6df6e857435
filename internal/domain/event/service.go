// Package event holds the singleton event row and the seat ledger: the
// booked/total capacity counters that the registration flow and the admin
// dashboard both mutate.
package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "event").Logger(),
	}
}

func (s *Service) Get(ctx context.Context) (*Event, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Update applies admin edits to the event row. total_seats may grow freely
// but can never drop below the current booked count.
func (s *Service) Update(ctx context.Context, params UpdateParams) (*Event, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Venue = strings.TrimSpace(params.Venue)
	params.Description = strings.TrimSpace(params.Description)
	params.Time = strings.TrimSpace(params.Time)

	if params.Title == "" {
		return nil, ValidationError{Field: "title", Message: "required"}
	}
	if params.Venue == "" {
		return nil, ValidationError{Field: "venue", Message: "required"}
	}
	if params.Date.IsZero() {
		return nil, ValidationError{Field: "date", Message: "required"}
	}
	if params.TotalSeats < 1 {
		return nil, ValidationError{Field: "total_seats", Message: "must be a positive integer"}
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if params.TotalSeats < current.BookedSeats {
		return nil, ErrCapacityBelowBooked
	}

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("event_id", updated.ID).
		Int("total_seats", updated.TotalSeats).
		Msg("event updated")
	return updated, nil
}
