package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"AlphaPulse/internal/service/ratelimit"
	xhttp "AlphaPulse/pkg/http"
)

// Responses embed the status in the envelope body, not the HTTP code.
func envelopeStatus(t *testing.T, rec *httptest.ResponseRecorder) int {
	t.Helper()
	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return resp.Status
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error {
		return xhttp.SuccessResponse(c, UserID(c))
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestIdentityRejectsAnonymousRequests(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/alpha/score", nil)
	rec := runMiddleware(t, Identity(), req)
	if got := envelopeStatus(t, rec); got != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", got)
	}
}

func TestIdentityExposesUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/alpha/score", nil)
	req.Header.Set("X-User-ID", "u1")
	rec := runMiddleware(t, Identity(), req)
	if got := envelopeStatus(t, rec); got != http.StatusOK {
		t.Fatalf("status = %d, want 200", got)
	}
	var resp struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data != "u1" {
		t.Fatalf("user id = %q, want u1", resp.Data)
	}
}

func rateLimited(t *testing.T, mw echo.MiddlewareFunc, uid string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/alpha/biases/detect", nil)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(userIDKey, uid)
	handler := mw(func(c echo.Context) error {
		return xhttp.SuccessResponse(c, "ok")
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return envelopeStatus(t, rec)
}

func TestUserRateLimitBlocksBurst(t *testing.T) {
	limiter := ratelimit.New()
	mw := UserRateLimit(limiter, 2, time.Minute)

	statuses := []int{
		rateLimited(t, mw, "u1"),
		rateLimited(t, mw, "u1"),
		rateLimited(t, mw, "u1"),
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("first two requests should pass: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", statuses[2])
	}
}

func TestUserRateLimitIsPerUser(t *testing.T) {
	limiter := ratelimit.New()
	mw := UserRateLimit(limiter, 1, time.Minute)

	for _, uid := range []string{"u1", "u2"} {
		if got := rateLimited(t, mw, uid); got != http.StatusOK {
			t.Fatalf("user %s blocked by another user's bucket: %d", uid, got)
		}
	}
}
