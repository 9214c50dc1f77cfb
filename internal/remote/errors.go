package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport failure")
	// ErrRejected matches every *APIError.
	ErrRejected = errors.New("rejected by backend")
)

// TransportError is a failure to complete the exchange: the request never
// got an answer, or the answer could not be parsed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// APIError is a well-formed answer that reports failure, either through
// success:false or a non-2xx status.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (status %d): %s", e.Op, ErrRejected, e.StatusCode, msg)
}

func (e *APIError) Is(target error) bool { return target == ErrRejected }

// UserMessage renders err the way it is shown to a user: the server's
// message when there is one, otherwise "Network error".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Network error"
}
