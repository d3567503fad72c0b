package trello

import "fmt"

// HTTPError reports a non-2xx reply from the Trello API.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("trello: upstream returned status %d", e.StatusCode)
}

// TransportError reports a failure to reach the Trello API at all
// (DNS, connection refused, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "trello: request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedError reports a successful reply whose body does not have the
// expected shape: an undecodable body, a value of the wrong JSON kind, or a
// required field that is absent.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	return "trello: malformed response: " + e.Reason
}

func (e *MalformedError) Unwrap() error { return e.Err }
