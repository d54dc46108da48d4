package completion

import "errors"

// Sentinel failures on the completion path. Callers match them with
// errors.Is through the wrapping Error.
var (
	ErrTimeout         = errors.New("completion timed out")
	ErrEmptyResponse   = errors.New("empty response")
	ErrInvalidResponse = errors.New("invalid response detected")
)

// Error is the failure type returned by Service.GetCompletion. It carries
// a short operation message and the underlying cause.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }
