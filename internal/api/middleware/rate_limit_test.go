package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimitByIP(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, RateLimitByIP(2))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":52000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1"); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, rec.Code)
		}
	}

	rec := send("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"]["message"] == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}

	if rec := send("10.0.0.2"); rec.Code != http.StatusCreated {
		t.Fatalf("other clients must not be limited, got %d", rec.Code)
	}
}

func TestRateLimitByIP_Disabled(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, RateLimitByIP(0))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, rec.Code)
		}
	}
}
