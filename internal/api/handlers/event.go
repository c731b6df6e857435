package handlers

import (
	"net/http"
	"time"

	"github.com/openseat/server/internal/api/problem"
	"github.com/openseat/server/internal/domain/event"
)

// EventHandler serves the public event card and the admin event editor.
type EventHandler struct {
	events *event.Service
	env    string
}

func NewEventHandler(events *event.Service, env string) *EventHandler {
	return &EventHandler{events: events, env: env}
}

type eventResponse struct {
	Success bool         `json:"success"`
	Event   *event.Event `json:"event"`
}

// Get handles GET /event and GET /admin/event.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.Get(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{Success: true, Event: ev})
}

type updateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	TotalSeats  int    `json:"total_seats"`
}

// Update handles PUT /admin/event. The date accepts RFC 3339 or a bare
// calendar day.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationFailed,
			"Invalid event date", err, h.env,
			problem.WithErrors(map[string]interface{}{"date": "must be RFC 3339 or YYYY-MM-DD"}))
		return
	}

	ev, err := h.events.Update(r.Context(), event.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Venue:       req.Venue,
		TotalSeats:  req.TotalSeats,
	})
	if err != nil {
		writeDomainError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{Success: true, Event: ev})
}

func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
