package model

import "net/http"

// SecurityLayer builds the base transport used for API calls.
type SecurityLayer interface {
	Transport() (http.RoundTripper, error)
}
