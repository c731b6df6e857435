package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openseat/server/internal/domain/event"
	"github.com/openseat/server/internal/domain/registration"
)

// In-memory fakes backing the handler tests. The seat ledger mirrors the
// store's conditional-update semantics: a claim on a full event fails and
// nothing is written.

type fakeEvents struct {
	ev     event.Event
	getErr error
}

func (f *fakeEvents) Get(ctx context.Context) (*event.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := f.ev
	return &copied, nil
}

func (f *fakeEvents) Update(ctx context.Context, params event.UpdateParams) (*event.Event, error) {
	f.ev.Title = params.Title
	f.ev.Description = params.Description
	f.ev.Date = params.Date
	f.ev.Time = params.Time
	f.ev.Venue = params.Venue
	f.ev.TotalSeats = params.TotalSeats
	copied := f.ev
	return &copied, nil
}

func (f *fakeEvents) IncrementBooked(ctx context.Context, id int64) error {
	if f.ev.BookedSeats >= f.ev.TotalSeats {
		return event.ErrFull
	}
	f.ev.BookedSeats++
	return nil
}

func (f *fakeEvents) DecrementBooked(ctx context.Context, id int64) error {
	if f.ev.BookedSeats > 0 {
		f.ev.BookedSeats--
	}
	return nil
}

func (f *fakeEvents) Stats(ctx context.Context) (event.Stats, error) {
	return event.Stats{
		TotalSeats:         f.ev.TotalSeats,
		BookedSeats:        f.ev.BookedSeats,
		RemainingSeats:     f.ev.TotalSeats - f.ev.BookedSeats,
		TotalRegistrations: f.ev.BookedSeats,
	}, nil
}

type fakeRegs struct {
	byEmail map[string]*registration.Registration
	nextID  int64
	events  *fakeEvents
}

func newFakeRegs(events *fakeEvents) *fakeRegs {
	return &fakeRegs{byEmail: make(map[string]*registration.Registration), nextID: 1, events: events}
}

func (f *fakeRegs) Create(ctx context.Context, params registration.CreateParams) (*registration.Registration, error) {
	if _, ok := f.byEmail[params.Email]; ok {
		return nil, registration.ErrAlreadyRegistered
	}
	if err := f.events.IncrementBooked(ctx, f.events.ev.ID); err != nil {
		return nil, err
	}
	reg := &registration.Registration{
		ID:        f.nextID,
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Course:    params.Course,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.byEmail[params.Email] = reg
	return reg, nil
}

func (f *fakeRegs) GetByEmail(ctx context.Context, email string) (*registration.Registration, error) {
	if reg, ok := f.byEmail[email]; ok {
		return reg, nil
	}
	return nil, registration.ErrNotFound
}

func (f *fakeRegs) GetByID(ctx context.Context, id int64) (*registration.Registration, error) {
	for _, reg := range f.byEmail {
		if reg.ID == id {
			return reg, nil
		}
	}
	return nil, registration.ErrNotFound
}

func (f *fakeRegs) List(ctx context.Context) ([]registration.Registration, error) {
	out := make([]registration.Registration, 0, len(f.byEmail))
	for _, reg := range f.byEmail {
		out = append(out, *reg)
	}
	return out, nil
}

func (f *fakeRegs) Delete(ctx context.Context, id int64) error {
	for email, reg := range f.byEmail {
		if reg.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return registration.ErrNotFound
}

type fakeOTPs struct {
	byEmail map[string]*registration.OTPVerification
	nextID  int64
}

func newFakeOTPs() *fakeOTPs {
	return &fakeOTPs{byEmail: make(map[string]*registration.OTPVerification), nextID: 1}
}

func (f *fakeOTPs) Create(ctx context.Context, email, code string, expiresAt time.Time) error {
	f.byEmail[email] = &registration.OTPVerification{ID: f.nextID, Email: email, Code: code, ExpiresAt: expiresAt}
	f.nextID++
	return nil
}

func (f *fakeOTPs) GetByEmailAndCode(ctx context.Context, email, code string) (*registration.OTPVerification, error) {
	row, ok := f.byEmail[email]
	if !ok || row.Code != code {
		return nil, registration.ErrInvalidOTP
	}
	copied := *row
	return &copied, nil
}

func (f *fakeOTPs) DeleteByEmail(ctx context.Context, email string) error {
	delete(f.byEmail, email)
	return nil
}

func (f *fakeOTPs) DeleteByID(ctx context.Context, id int64) error {
	for email, row := range f.byEmail {
		if row.ID == id {
			delete(f.byEmail, email)
		}
	}
	return nil
}

func (f *fakeOTPs) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	for email, row := range f.byEmail {
		if row.ExpiresAt.Before(now) {
			delete(f.byEmail, email)
			deleted++
		}
	}
	return deleted, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendOTP(ctx context.Context, to, code string, expiry time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type testEnv struct {
	events   *fakeEvents
	regs     *fakeRegs
	otps     *fakeOTPs
	sender   *fakeSender
	eventSvc *event.Service
	regSvc   *registration.Service
}

func newTestEnv(t *testing.T, total, booked int) *testEnv {
	t.Helper()
	events := &fakeEvents{ev: event.Event{
		ID:          1,
		Title:       "Launch Night",
		Date:        time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
		Time:        "9:00 AM",
		Venue:       "Hall B",
		TotalSeats:  total,
		BookedSeats: booked,
	}}
	env := &testEnv{
		events: events,
		regs:   newFakeRegs(events),
		otps:   newFakeOTPs(),
		sender: &fakeSender{},
	}
	env.eventSvc = event.NewService(events, zerolog.Nop())
	env.regSvc = registration.NewService(env.regs, env.otps, events, env.sender, nil, registration.Config{
		AllowedDomain: "example.edu",
		OTPExpiry:     10 * time.Minute,
	}, zerolog.Nop())
	return env
}
