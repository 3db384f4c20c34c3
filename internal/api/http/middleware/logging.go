package middleware

import (
	"net/http"
	"time"

	"github.com/dtroode/taskdesk/internal/logger"
)

// Logging is a RoundTripper that logs API calls and their results.
type Logging struct {
	next   http.RoundTripper
	logger *logger.Logger
}

// NewLogging creates a new Logging transport in front of next.
func NewLogging(next http.RoundTripper, logger *logger.Logger) *Logging {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Logging{next: next, logger: logger}
}

// RoundTrip logs method, path, duration and status of each call.
func (l *Logging) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	l.logger.Debug("API request started",
		"method", req.Method,
		"path", req.URL.Path)

	resp, err := l.next.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		l.logger.Error("API request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error())
		return nil, err
	}

	l.logger.Info("API request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"duration_ms", duration.Milliseconds(),
		"status", resp.StatusCode)

	return resp, nil
}
