package court

import (
	"errors"

	"go.uber.org/zap"
)

var (
	// ErrUnknownAdapter is returned for a court whose adapter kind has no implementation.
	ErrUnknownAdapter = errors.New("unknown adapter")
	// ErrBadStatus is returned when a court answers with a non-2xx status.
	ErrBadStatus = errors.New("unexpected status")
	// ErrInvalidResponse is returned when a court's payload cannot be parsed.
	ErrInvalidResponse = errors.New("invalid response from court")
	// ErrRequestFailed is returned when the request could not be sent or read.
	ErrRequestFailed = errors.New("request failed")
)

// Error describes a failed court search. Error returns only Message, which is
// shown to users as a warning and written in Portuguese. Code and Err are for
// logs and errors.Is.
type Error struct {
	Court   string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Fields returns the log fields describing e.
func (e *Error) Fields() []zap.Field {
	fields := []zap.Field{zap.String("code", e.Code)}
	if e.Err != nil {
		fields = append(fields, zap.NamedError("cause", e.Err))
	}
	return fields
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(court, code, message string, err error) *Error {
	return &Error{Court: court, Code: code, Message: message, Err: err}
}
