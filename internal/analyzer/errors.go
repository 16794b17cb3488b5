package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks uploads rejected before any network call.
	ErrValidation = errors.New("invalid upload")
	// ErrTransport marks network failures and non-2xx answers from the backend.
	ErrTransport = errors.New("analysis backend request failed")
)

// User-facing validation messages.
const (
	MsgNoFile          = "Please select a file first"
	MsgUnsupportedType = "Please upload a PDF or DOCX file"
	MsgTooLarge        = "File size must be less than 5MB"
)

// ValidationError carries the message shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Endpoint, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrTransport }
