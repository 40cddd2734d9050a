package networking

import (
	"errors"
	"fmt"
)

// ErrTransport matches every *TransportError with errors.Is.
var ErrTransport = errors.New("transport failure")

// TransportError is returned when no response could be obtained from the
// service: DNS, connection, timeout or a body cut short.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
