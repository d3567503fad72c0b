package boardtools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skosovsky/trelly/trello"
)

// failure builds the error envelope every tool returns instead of propagating
// a failure: {"error": "<prefix>: <reason>"} plus an empty collection under
// fallbackKey when the success shape has a top-level one, so a caller doing
// optimistic key access still finds the key.
func failure(prefix string, err error, fallbackKey string) json.RawMessage {
	env := map[string]any{"error": prefix + ": " + reason(err)}
	if fallbackKey != "" {
		env[fallbackKey] = []any{}
	}
	b, merr := json.Marshal(env)
	if merr != nil {
		// A map of strings and empty slices always marshals.
		return json.RawMessage(`{"error":"` + prefix + `"}`)
	}
	return b
}

// reason renders err for the envelope, matching over the closed set of
// upstream failure kinds.
func reason(err error) string {
	var (
		httpErr      *trello.HTTPError
		transportErr *trello.TransportError
		malformedErr *trello.MalformedError
	)
	switch {
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Trello API returned status %d", httpErr.StatusCode)
	case errors.As(err, &transportErr):
		return "could not reach the Trello API: " + transportErr.Err.Error()
	case errors.As(err, &malformedErr):
		return "unexpected Trello API response: " + malformedErr.Reason
	default:
		return err.Error()
	}
}
