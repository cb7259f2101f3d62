package swarm

import (
	"errors"
	"fmt"
)

// ErrUnreachable marks a transport failure: the server never produced a
// response, so no status code is available.
var ErrUnreachable = errors.New("Swarm server not reachable")

// ErrUnexpectedFormat marks a response whose body did not parse as the
// Swarm JSON envelope, regardless of HTTP status.
var ErrUnexpectedFormat = errors.New("unexpected response format from Swarm")

// RemoteError is a parsed envelope whose error field was set.
type RemoteError struct {
	Text string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("Swarm returned an error (%s)", e.Text)
}

// ProtocolError is a non-200 answer to a POST; the status code is
// available and Message carries the decoded response body.
type ProtocolError struct {
	StatusCode int
	Message    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("Swarm responded with status %d: %s", e.StatusCode, e.Message)
}
