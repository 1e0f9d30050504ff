package types

import "errors"

// Descriptor construction errors.
var (
	ErrNoPayload = errors.New("no payload supplied")
	ErrNoHandler = errors.New("no handler supplied")
)

// DecodeError reports that a response payload (from the executor or from a
// matched override) could not be deserialized into the caller's requested
// type. It is deliberately distinct from execution errors so callers can tell
// "got a response of the wrong shape" apart from "got no response".
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
