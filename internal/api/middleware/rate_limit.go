package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
)

// RateLimitByIP allows at most requests per minute from a single client IP.
// Non-positive values disable the limit.
func RateLimitByIP(requests int) echo.MiddlewareFunc {
	if requests <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return echo.WrapMiddleware(httprate.Limit(
		requests,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded),
	))
}

func limitExceeded(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"message": "too many requests"},
	})
}
