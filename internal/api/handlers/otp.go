package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openseat/server/internal/domain/registration"
	"github.com/openseat/server/internal/metrics"
)

// OTPHandler serves code issuance and the pre-registration verify step.
type OTPHandler struct {
	regs   *registration.Service
	expiry time.Duration
	env    string
}

func NewOTPHandler(regs *registration.Service, expiry time.Duration, env string) *OTPHandler {
	return &OTPHandler{regs: regs, expiry: expiry, env: env}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Send handles POST /send-otp.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	email, err := h.regs.IssueOTP(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, r, err, h.env)
		return
	}

	metrics.OTPIssuedTotal.Inc()
	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("OTP sent to %s. Valid for %d minutes.", email, int(h.expiry.Minutes())),
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Verify handles POST /verify-otp. Verification does not consume the code;
// the same code is checked again when the registration form is submitted.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	if err := h.regs.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
		writeDomainError(w, r, err, h.env)
		return
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "OTP verified"})
}

func verifyResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, registration.ErrOTPExpired):
		return "expired"
	default:
		return "invalid"
	}
}
