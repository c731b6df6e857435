package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func registerParticipant(t *testing.T, env *testEnv, email string) {
	t.Helper()
	handler := NewRegistrationHandler(env.regSvc, "test")
	seedOTP(t, env, email, "123456")
	body := `{"name":"Priya","email":"` + email + `","phone":"5551234567","otp":"123456"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	res := httptest.NewRecorder()
	handler.Register(res, req)
	require.Equal(t, http.StatusCreated, res.Code)
}

func TestAdminHandler_Login(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "sekrit", "test")

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"key":"sekrit"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body adminLoginResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, "sekrit", body.Token)
}

func TestAdminHandler_LoginWrongKey(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "sekrit", "test")

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"key":"guess"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAdminHandler_LoginFailsClosedWithoutSecret(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "", "test")

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"key":""}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusInternalServerError, res.Code)
}

func TestAdminHandler_Stats(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "sekrit", "test")
	registerParticipant(t, env, "user@example.edu")

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	res := httptest.NewRecorder()
	handler.Stats(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body statsResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, 10, body.Stats.TotalSeats)
	require.Equal(t, 1, body.Stats.BookedSeats)
	require.Equal(t, 9, body.Stats.RemainingSeats)
}

func TestAdminHandler_ListRegistrations(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "sekrit", "test")
	registerParticipant(t, env, "first@example.edu")
	registerParticipant(t, env, "second@example.edu")

	req := httptest.NewRequest(http.MethodGet, "/admin/registrations", nil)
	res := httptest.NewRecorder()
	handler.ListRegistrations(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body registrationsResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, 2, body.Count)
	require.Len(t, body.Registrations, 2)
}

func TestAdminHandler_DeleteRegistration(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "sekrit", "test")
	registerParticipant(t, env, "user@example.edu")
	require.Equal(t, 1, env.events.ev.BookedSeats)

	req := httptest.NewRequest(http.MethodDelete, "/admin/registrations/1", nil)
	req.SetPathValue("id", "1")
	res := httptest.NewRecorder()
	handler.DeleteRegistration(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, 0, env.events.ev.BookedSeats)
}

func TestAdminHandler_DeleteRegistrationBadID(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "sekrit", "test")

	req := httptest.NewRequest(http.MethodDelete, "/admin/registrations/abc", nil)
	req.SetPathValue("id", "abc")
	res := httptest.NewRecorder()
	handler.DeleteRegistration(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestAdminHandler_DeleteRegistrationNotFound(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewAdminHandler(env.regSvc, env.eventSvc, "sekrit", "test")

	req := httptest.NewRequest(http.MethodDelete, "/admin/registrations/42", nil)
	req.SetPathValue("id", "42")
	res := httptest.NewRecorder()
	handler.DeleteRegistration(res, req)

	require.Equal(t, http.StatusNotFound, res.Code)
}
