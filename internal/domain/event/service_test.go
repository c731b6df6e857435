package event

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	ev      Event
	updated *UpdateParams
}

func (s *stubRepo) Get(ctx context.Context) (*Event, error) {
	copied := s.ev
	return &copied, nil
}

func (s *stubRepo) Update(ctx context.Context, params UpdateParams) (*Event, error) {
	s.updated = &params
	s.ev.Title = params.Title
	s.ev.Description = params.Description
	s.ev.Date = params.Date
	s.ev.Time = params.Time
	s.ev.Venue = params.Venue
	s.ev.TotalSeats = params.TotalSeats
	copied := s.ev
	return &copied, nil
}

func (s *stubRepo) IncrementBooked(ctx context.Context, id int64) error {
	if s.ev.BookedSeats >= s.ev.TotalSeats {
		return ErrFull
	}
	s.ev.BookedSeats++
	return nil
}

func (s *stubRepo) DecrementBooked(ctx context.Context, id int64) error {
	if s.ev.BookedSeats > 0 {
		s.ev.BookedSeats--
	}
	return nil
}

func (s *stubRepo) Stats(ctx context.Context) (Stats, error) {
	return Stats{
		TotalSeats:     s.ev.TotalSeats,
		BookedSeats:    s.ev.BookedSeats,
		RemainingSeats: s.ev.TotalSeats - s.ev.BookedSeats,
	}, nil
}

func validParams() UpdateParams {
	return UpdateParams{
		Title:      "Launch Night",
		Date:       time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
		Venue:      "Hall B",
		TotalSeats: 100,
	}
}

func TestUpdate_RequiresTitleVenueDate(t *testing.T) {
	repo := &stubRepo{ev: Event{ID: 1, TotalSeats: 100}}
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	params := validParams()
	params.Title = "  "
	_, err := svc.Update(ctx, params)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "title", verr.Field)

	params = validParams()
	params.Venue = ""
	_, err = svc.Update(ctx, params)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "venue", verr.Field)

	params = validParams()
	params.Date = time.Time{}
	_, err = svc.Update(ctx, params)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "date", verr.Field)
}

func TestUpdate_RejectsNonPositiveSeats(t *testing.T) {
	repo := &stubRepo{ev: Event{ID: 1, TotalSeats: 100}}
	svc := NewService(repo, zerolog.Nop())

	params := validParams()
	params.TotalSeats = 0
	_, err := svc.Update(context.Background(), params)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "total_seats", verr.Field)
}

func TestUpdate_RejectsCapacityBelowBooked(t *testing.T) {
	repo := &stubRepo{ev: Event{ID: 1, TotalSeats: 100, BookedSeats: 40}}
	svc := NewService(repo, zerolog.Nop())

	params := validParams()
	params.TotalSeats = 39
	_, err := svc.Update(context.Background(), params)
	require.ErrorIs(t, err, ErrCapacityBelowBooked)
	require.Nil(t, repo.updated)
}

func TestUpdate_AllowsCapacityAtBooked(t *testing.T) {
	repo := &stubRepo{ev: Event{ID: 1, TotalSeats: 100, BookedSeats: 40}}
	svc := NewService(repo, zerolog.Nop())

	params := validParams()
	params.TotalSeats = 40
	updated, err := svc.Update(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, 40, updated.TotalSeats)
}

func TestUpdate_TrimsFields(t *testing.T) {
	repo := &stubRepo{ev: Event{ID: 1, TotalSeats: 100}}
	svc := NewService(repo, zerolog.Nop())

	params := validParams()
	params.Title = "  Launch Night  "
	params.Venue = " Hall B "
	updated, err := svc.Update(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, "Launch Night", updated.Title)
	require.Equal(t, "Hall B", updated.Venue)
}
