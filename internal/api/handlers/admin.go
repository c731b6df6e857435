package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"

	"github.com/openseat/server/internal/api/problem"
	"github.com/openseat/server/internal/domain/event"
	"github.com/openseat/server/internal/domain/registration"
	"github.com/openseat/server/internal/metrics"
)

// AdminHandler serves the dashboard: login, stats, and registration
// management. All routes except Login sit behind the X-Admin-Key middleware.
type AdminHandler struct {
	regs   *registration.Service
	events *event.Service
	secret string
	env    string
}

func NewAdminHandler(regs *registration.Service, events *event.Service, secret, env string) *AdminHandler {
	return &AdminHandler{regs: regs, events: events, secret: secret, env: env}
}

type adminLoginRequest struct {
	Key string `json:"key"`
}

type adminLoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login handles POST /admin/login. The shared secret doubles as the session
// token: the dashboard stores it and replays it in X-Admin-Key.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError,
			"Admin access not configured", fmt.Errorf("admin secret key is not set"), h.env)
		return
	}

	var req adminLoginRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.secret)) != 1 {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized,
			"Invalid admin key", fmt.Errorf("admin key mismatch"), h.env)
		return
	}

	writeJSON(w, http.StatusOK, adminLoginResponse{Success: true, Token: h.secret})
}

type statsResponse struct {
	Success bool        `json:"success"`
	Stats   event.Stats `json:"stats"`
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.events.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

type registrationsResponse struct {
	Success       bool                        `json:"success"`
	Registrations []registration.Registration `json:"registrations"`
	Count         int                         `json:"count"`
}

// ListRegistrations handles GET /admin/registrations.
func (h *AdminHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	items, err := h.regs.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, registrationsResponse{
		Success:       true,
		Registrations: items,
		Count:         len(items),
	})
}

// DeleteRegistration handles DELETE /admin/registrations/{id}.
func (h *AdminHandler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeBadRequest,
			"Invalid registration id", err, h.env)
		return
	}

	if err := h.regs.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err, h.env)
		return
	}

	metrics.RegistrationsDeletedTotal.Inc()
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Registration deleted"})
}
