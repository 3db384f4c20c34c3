package middleware

import (
	"context"
	"net/http"

	"github.com/dtroode/taskdesk/internal/logger"
)

// HeaderUserEmail carries the session email next to the bearer token.
const HeaderUserEmail = "X-User-Email"

// CredentialSource yields the credentials of the current session.
// Empty strings mean the value is absent.
type CredentialSource interface {
	Credentials(ctx context.Context) (token, email string, err error)
}

// Authorize is a RoundTripper that attaches the stored session to every outbound call.
type Authorize struct {
	source CredentialSource
	next   http.RoundTripper
	logger *logger.Logger
}

// NewAuthorize creates a new Authorize transport in front of next.
func NewAuthorize(source CredentialSource, next http.RoundTripper, logger *logger.Logger) *Authorize {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Authorize{source: source, next: next, logger: logger}
}

// RoundTrip reads the session on every call. A call without a session goes out
// without credentials and is left for the backend to reject.
func (a *Authorize) RoundTrip(req *http.Request) (*http.Response, error) {
	token, email, err := a.source.Credentials(req.Context())
	if err != nil {
		a.logger.Warn("Authorize: failed to read session, sending request unauthenticated",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err.Error())
		token, email = "", ""
	}

	r := req.Clone(req.Context())
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	} else {
		r.Header.Del("Authorization")
	}
	if email != "" {
		r.Header.Set(HeaderUserEmail, email)
	} else {
		r.Header.Del(HeaderUserEmail)
	}

	return a.next.RoundTrip(r)
}
