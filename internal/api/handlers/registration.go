package handlers

import (
	"net/http"

	"github.com/openseat/server/internal/domain/registration"
	"github.com/openseat/server/internal/metrics"
)

// RegistrationHandler serves the registration form submit.
type RegistrationHandler struct {
	regs *registration.Service
	env  string
}

func NewRegistrationHandler(regs *registration.Service, env string) *RegistrationHandler {
	return &RegistrationHandler{regs: regs, env: env}
}

type registerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Course string `json:"course"`
	OTP    string `json:"otp"`
}

type registerResponse struct {
	Success      bool                       `json:"success"`
	Message      string                     `json:"message"`
	Registration *registration.Registration `json:"registration"`
}

// Register handles POST /register.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	created, err := h.regs.Register(r.Context(), registration.RegisterParams{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Course: req.Course,
		OTP:    req.OTP,
	})
	if err != nil {
		writeDomainError(w, r, err, h.env)
		return
	}

	metrics.RegistrationsTotal.Inc()
	writeJSON(w, http.StatusCreated, registerResponse{
		Success:      true,
		Message:      "Registration successful! A confirmation email is on its way.",
		Registration: created,
	})
}
