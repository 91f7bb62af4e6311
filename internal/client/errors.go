package client

import "errors"

// Failure taxonomy for API calls. Transport and server failures propagate to
// the caller unchanged; nothing here is retried.
var (
	ErrInvalidURL      = errors.New("client: invalid URL")
	ErrInvalidResponse = errors.New("client: invalid response")
	ErrUnauthorized    = errors.New("client: unauthorized")
	ErrDecoding        = errors.New("client: failed to decode response")
)

// ServerError carries the status and server-supplied message from a non-2xx
// response that is neither a 401 nor a 2xx.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return "client: server error: " + e.Message
}
