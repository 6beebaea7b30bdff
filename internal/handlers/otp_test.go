package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairalink/nairalink-backend/internal/services"
	"github.com/nairalink/nairalink-backend/internal/storage"
)

func newTestApp() *fiber.App {
	store := storage.NewMemoryStore()
	// Zero-value SMS service: unconfigured, so issue responses carry the code.
	otpService := services.NewOTPService(store, &services.SMSService{}, services.DefaultOTPConfig())

	app := fiber.New()
	h := NewOTPHandler(otpService)
	app.Post("/api/otp/send", h.Send)
	app.Post("/api/otp/verify", h.Verify)
	app.Post("/api/otp/resend", h.Resend)

	wh := NewWebhookHandler(store)
	app.Post("/webhook/sms-status", wh.SMSStatus)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp.StatusCode, parsed
}

func TestSendRejectsInvalidPhone(t *testing.T) {
	app := newTestApp()

	status, body := postJSON(t, app, "/api/otp/send", `{"phone_number":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "phone number")
}

func TestSendVerifyRoundTrip(t *testing.T) {
	app := newTestApp()

	status, body := postJSON(t, app, "/api/otp/send", `{"phone_number":"08012345678","purpose":"login"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(600), body["expires_in"])

	code, ok := body["code"].(string)
	require.True(t, ok, "dev mode response must include the code")
	require.Len(t, code, 6)

	status, body = postJSON(t, app, "/api/otp/verify",
		`{"phone_number":"08012345678","purpose":"login","code":"`+code+`"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	// Replaying the same code finds no active record.
	status, _ = postJSON(t, app, "/api/otp/verify",
		`{"phone_number":"08012345678","purpose":"login","code":"`+code+`"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestVerifyWrongCodeReportsAttemptsLeft(t *testing.T) {
	app := newTestApp()

	status, body := postJSON(t, app, "/api/otp/send", `{"phone_number":"08012345678"}`)
	require.Equal(t, http.StatusOK, status)

	wrong := "000000"
	if body["code"] == wrong {
		wrong = "000001"
	}

	status, body = postJSON(t, app, "/api/otp/verify",
		`{"phone_number":"08012345678","code":"`+wrong+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(2), body["attempts_left"])
}

func TestResendIsRateLimited(t *testing.T) {
	app := newTestApp()

	status, _ := postJSON(t, app, "/api/otp/send", `{"phone_number":"08012345678"}`)
	require.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodPost, "/api/otp/resend",
		strings.NewReader(`{"phone_number":"08012345678"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestSMSStatusWebhook(t *testing.T) {
	app := newTestApp()

	// Unknown SIDs are acknowledged so Twilio stops retrying.
	form := "MessageSid=SM123&MessageStatus=delivered"
	req := httptest.NewRequest(http.MethodPost, "/webhook/sms-status", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/webhook/sms-status", strings.NewReader("MessageSid=SM123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
