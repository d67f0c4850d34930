package api

import (
	"errors"
	"fmt"

	"github.com/realestate/rems-frontend/internal/validate"
)

// ErrAuthExpired is wrapped by a 401 ServerError when the rejected request
// carried the session's credentials. The session has been torn down by then.
var ErrAuthExpired = errors.New("authentication expired")

// TransportError means the backend could not be reached, or the request could not be built.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx backend response. Message is the server-provided
// message, or the operation's fallback when the body carried none.
type ServerError struct {
	Status  int
	Message string
	expired bool
}

func (e *ServerError) Error() string { return e.Message }

func (e *ServerError) Unwrap() error {
	if e.expired {
		return ErrAuthExpired
	}
	return nil
}

// DecodeError is a successful response whose body does not match the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Upload rejection reasons.
const (
	RejectEmpty = "empty"
	RejectType  = "type"
	RejectSize  = "size"
)

// UploadRejectedError is returned before transmission when a file is not an
// acceptable image.
type UploadRejectedError struct {
	File    string
	Reason  string
	Message string
}

func (e *UploadRejectedError) Error() string {
	if e.File == "" {
		return e.Message
	}
	return e.File + ": " + e.Message
}

// IsAuthExpired reports whether err ended the session.
func IsAuthExpired(err error) bool { return errors.Is(err, ErrAuthExpired) }

// UserMessage returns a message that is safe to show to the visitor.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		se *ServerError
		te *TransportError
		de *DecodeError
		ue *UploadRejectedError
		ve *validate.Errors
	)
	switch {
	case errors.As(err, &ve):
		return "Please correct the highlighted fields"
	case errors.As(err, &ue):
		return ue.Message
	case errors.As(err, &se):
		if se.expired {
			return "Your session has expired. Please log in again"
		}
		return se.Message
	case errors.As(err, &te):
		return "Unable to reach the server. Please try again later"
	case errors.As(err, &de):
		return "The server sent an unexpected response"
	}
	return "Something went wrong"
}
