package protocol

import "errors"

var (
	// ErrMalformed is returned for requests that cannot be parsed.
	ErrMalformed = errors.New("protocol: malformed request")
	// ErrTooLarge is returned when a request exceeds a size limit.
	ErrTooLarge = errors.New("protocol: request too large")
	// ErrEmpty is returned when the peer closes before sending a request line.
	ErrEmpty = errors.New("protocol: empty request")
)
