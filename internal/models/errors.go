package models

import (
	"errors"
	"net/http"
)

// Error kinds surfaced by the client and the managers. Callers match them
// with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidState       = errors.New("invalid state")
	ErrNetwork            = errors.New("network error")
	ErrTimeout            = errors.New("request timed out")
	ErrInvalidResponse    = errors.New("invalid response")
)

// Code is the machine-readable error code carried in the response envelope.
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInvalidTransition  Code = "INVALID_TRANSITION"
	CodeInvalidState       Code = "INVALID_STATE"
)

// Err returns the sentinel for the code, or nil for unknown codes.
func (c Code) Err() error {
	switch c {
	case CodeNotFound:
		return ErrNotFound
	case CodeInvalidArgument:
		return ErrInvalidArgument
	case CodeFailedPrecondition:
		return ErrFailedPrecondition
	case CodeInvalidTransition:
		return ErrInvalidTransition
	case CodeInvalidState:
		return ErrInvalidState
	default:
		return nil
	}
}

// HTTPStatus maps a code onto the status the devserver answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case CodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf classifies err by the sentinel it wraps.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrFailedPrecondition):
		return CodeFailedPrecondition
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	default:
		return CodeUnknown
	}
}

// CodeForStatus is the fallback classification when a response carries no
// error code.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidArgument
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeInvalidState
	case http.StatusPreconditionFailed:
		return CodeFailedPrecondition
	case http.StatusUnprocessableEntity:
		return CodeInvalidTransition
	default:
		return CodeUnknown
	}
}
