package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openseat/server/internal/api/problem"
	"github.com/openseat/server/internal/domain/event"
	"github.com/openseat/server/internal/domain/registration"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the registration and event error taxonomy onto RFC
// 7807 responses. Anything unrecognized is a 500 with the detail suppressed
// outside development.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var validationErr event.ValidationError

	switch {
	case errors.Is(err, registration.ErrInvalidDomain):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalidDomain,
			"Email domain not allowed", err, env)
	case errors.Is(err, registration.ErrMissingFields):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeMissingFields,
			"Missing required fields", err, env)
	case errors.Is(err, registration.ErrInvalidPhone):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalidPhone,
			"Invalid phone number", err, env)
	case errors.Is(err, registration.ErrAlreadyRegistered):
		problem.Write(w, r, http.StatusConflict, problem.TypeAlreadyRegistered,
			"Email already registered", err, env)
	case errors.Is(err, event.ErrFull):
		problem.Write(w, r, http.StatusConflict, problem.TypeEventFull,
			"Event is full", err, env)
	case errors.Is(err, event.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeEventNotFound,
			"Event not found", err, env)
	case errors.Is(err, registration.ErrInvalidOTP):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalidOTP,
			"Invalid verification code", err, env)
	case errors.Is(err, registration.ErrOTPExpired):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeOTPExpired,
			"Verification code expired", err, env)
	case errors.Is(err, registration.ErrOTPNotVerified):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeOTPNotVerified,
			"Email not verified", err, env)
	case errors.Is(err, registration.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound,
			"Registration not found", err, env)
	case errors.Is(err, registration.ErrNotificationFailure):
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeNotificationFailure,
			"Failed to send email", err, env)
	case errors.Is(err, event.ErrCapacityBelowBooked):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationFailed,
			"Total seats cannot be below booked seats", err, env)
	case errors.As(err, &validationErr):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationFailed,
			"Validation failed", err, env,
			problem.WithErrors(map[string]interface{}{validationErr.Field: validationErr.Message}))
	default:
		// Covers registration.ErrStoreFailure and anything unrecognized.
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError,
			"Internal server error", err, env)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, env string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeBadRequest,
			"Invalid request body", err, env)
		return false
	}
	return true
}
