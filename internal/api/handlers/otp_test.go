package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOTPHandler_Send(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewOTPHandler(env.regSvc, 10*time.Minute, "test")

	req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(`{"email":"user@example.edu"}`))
	res := httptest.NewRecorder()
	handler.Send(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body messageResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, "OTP sent to user@example.edu. Valid for 10 minutes.", body.Message)
	require.Len(t, env.sender.sent, 1)
}

func TestOTPHandler_SendRejectsForeignDomain(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewOTPHandler(env.regSvc, 10*time.Minute, "test")

	req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(`{"email":"user@gmail.com"}`))
	res := httptest.NewRecorder()
	handler.Send(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Equal(t, "application/problem+json", res.Result().Header.Get("Content-Type"))
	require.Empty(t, env.sender.sent)
}

func TestOTPHandler_SendEventFull(t *testing.T) {
	env := newTestEnv(t, 3, 3)
	handler := NewOTPHandler(env.regSvc, 10*time.Minute, "test")

	req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(`{"email":"user@example.edu"}`))
	res := httptest.NewRecorder()
	handler.Send(res, req)

	require.Equal(t, http.StatusConflict, res.Code)
}

func TestOTPHandler_SendInvalidBody(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewOTPHandler(env.regSvc, 10*time.Minute, "test")

	req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(`{`))
	res := httptest.NewRecorder()
	handler.Send(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestOTPHandler_Verify(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewOTPHandler(env.regSvc, 10*time.Minute, "test")
	require.NoError(t, env.otps.Create(context.Background(), "user@example.edu", "123456", time.Now().Add(time.Minute)))

	req := httptest.NewRequest(http.MethodPost, "/verify-otp", strings.NewReader(`{"email":"user@example.edu","otp":"123456"}`))
	res := httptest.NewRecorder()
	handler.Verify(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body messageResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Success)
}

func TestOTPHandler_VerifyWrongCode(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewOTPHandler(env.regSvc, 10*time.Minute, "test")
	require.NoError(t, env.otps.Create(context.Background(), "user@example.edu", "123456", time.Now().Add(time.Minute)))

	req := httptest.NewRequest(http.MethodPost, "/verify-otp", strings.NewReader(`{"email":"user@example.edu","otp":"000000"}`))
	res := httptest.NewRecorder()
	handler.Verify(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestOTPHandler_VerifyExpiredCode(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	handler := NewOTPHandler(env.regSvc, 10*time.Minute, "test")
	require.NoError(t, env.otps.Create(context.Background(), "user@example.edu", "123456", time.Now().Add(-time.Minute)))

	req := httptest.NewRequest(http.MethodPost, "/verify-otp", strings.NewReader(`{"email":"user@example.edu","otp":"123456"}`))
	res := httptest.NewRecorder()
	handler.Verify(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)

	var body struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Contains(t, body.Type, "otp-expired")
}
