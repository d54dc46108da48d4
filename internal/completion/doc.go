// Package completion provides the governed model-completion path.
//
// A Service wraps a Completer (the deterministic local responder or an
// OpenAI-compatible remote endpoint) with prompt sanitization, a
// requests-per-minute rate limiter, a key-rotation advisory, a per-request
// timeout, and response vetting. Remote transport errors are classified;
// rate-limited and server-error responses are retried with exponential
// back-off, auth errors never.
//
// All failures surface as *Error wrapping one of the sentinel errors
// (ErrTimeout, ErrEmptyResponse, ErrInvalidResponse) or the transport cause.
package completion
