package call

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// StatusError is an HTTP-status-carrying error for providers without a
// typed Go client (the meeting-bot API). Classification follows the
// status code the same way it does for Google API errors.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// terminalError marks an error as not worth retrying regardless of shape.
type terminalError struct {
	err error
}

func (e *terminalError) Error() string { return e.err.Error() }
func (e *terminalError) Unwrap() error { return e.err }

// Terminal wraps err so the retry loop treats it as a terminal client
// error. Handlers use this for provider errors that carry no status code
// but are known-permanent (revoked tokens, malformed cursors).
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

// IsTerminal reports whether err is a terminal client error: retrying
// cannot help. Everything else (timeouts, connection failures, 429, 5xx)
// is considered transient, following the classification the Google
// connector applies to API errors.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}

	var marked *terminalError
	if errors.As(err, &marked) {
		return true
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return terminalCode(gerr.Code)
	}

	var serr *StatusError
	if errors.As(err, &serr) {
		return terminalCode(serr.Code)
	}

	// Non-status errors (connection refused, timeout, EOF) are transient.
	return false
}

// terminalCode reports whether an HTTP status is a terminal client error.
// 429 is rate limiting and 408 a server-side timeout; both retry.
func terminalCode(code int) bool {
	if code == http.StatusTooManyRequests || code == http.StatusRequestTimeout {
		return false
	}
	return code >= 400 && code < 500
}
