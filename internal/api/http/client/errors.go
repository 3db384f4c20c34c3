package client

import (
	"errors"
	"fmt"

	"github.com/dtroode/taskdesk/internal/model"
)

// ErrBodyTooLarge is a response body over the client's size limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Error is the single failure type returned by Client. Kind is one of
// model.ErrNetworkOrServer or model.ErrUnexpectedResponseShape.
type Error struct {
	Kind    error
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// ServerMessage is the error text supplied by the backend, if any.
func (e *Error) ServerMessage() string {
	return e.Message
}

// StatusCode is the HTTP status of the failed call, 0 when no response arrived.
func (e *Error) StatusCode() int {
	return e.Status
}

// Message returns the text to show for err: the server-supplied text when
// there is one, otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func networkError(op string, err error) *Error {
	return &Error{Kind: model.ErrNetworkOrServer, Op: op, Err: err}
}

func shapeError(op string, status int, err error) *Error {
	return &Error{Kind: model.ErrUnexpectedResponseShape, Op: op, Status: status, Err: err}
}
