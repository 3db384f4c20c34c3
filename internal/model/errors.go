package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores for missing keys.
	ErrNotFound = errors.New("not found")

	// ErrMissingSession means no token is stored; the caller must log in.
	ErrMissingSession = errors.New("no token found, please login")
	// ErrInvalidCredentials is a login mismatch.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNetworkOrServer is any failed API call.
	ErrNetworkOrServer = errors.New("network or server error")
	// ErrUnexpectedResponseShape is a payload that does not decode to the expected form.
	ErrUnexpectedResponseShape = errors.New("unexpected response format")

	// ErrValidation is a form submitted with missing or malformed fields.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidEmail is a malformed email address; it is an ErrValidation.
	ErrInvalidEmail = fmt.Errorf("%w: malformed email", ErrValidation)
	// ErrBusy is a mutation submitted while another is in flight.
	ErrBusy = errors.New("another request is in progress")
	// ErrForbidden is a session whose role may not use a dashboard.
	ErrForbidden = errors.New("role is not allowed here")
)
