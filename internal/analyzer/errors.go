package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData is returned when a request has no résumé text or no keywords.
	ErrMissingData = errors.New("missing data")
	// ErrRejected is returned when the remote analyzer refuses a request for another reason.
	ErrRejected = errors.New("request rejected by analyzer")
)

// TransportError is a failure to reach the analyzer or get a usable answer from it.
// It is worth retrying.
type TransportError struct {
	Target string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling analyzer %s: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err carries a TransportError.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
