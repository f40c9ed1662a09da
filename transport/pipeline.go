package transport

import "fmt"

// Fallback messages used when a failing response carries no structured
// error field.
const (
	fallbackFailed     = "API request failed"
	fallbackUnexpected = "Unexpected response"
)

// acceptedStatuses is the only set of HTTP status codes treated as
// unconditional success. Anything else, 2xx included, is converted into a
// failure so callers cannot accidentally treat it as success.
var acceptedStatuses = map[int]struct{}{
	200: {},
	201: {},
	202: {},
}

func accepted(status int) bool {
	_, ok := acceptedStatuses[status]
	return ok
}

// Kind tags an APIError with the failure category.
type Kind int

const (
	// KindValidation: rejected locally before any network call.
	KindValidation Kind = iota

	// KindTransport: network-level failure, no server response available.
	KindTransport

	// KindApplication: server answered with a status outside the
	// accepted set.
	KindApplication
)

// String returns the category name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// APIError is the tagged outcome of a failed transport operation. By the
// time a caller sees one, the user has already been notified exactly once;
// callers take recovery action without re-notifying.
type APIError struct {
	Kind    Kind
	Status  int    // HTTP status for KindApplication, zero otherwise
	Message string // the message that was shown to the user
	Err     error  // underlying transport error, nil unless KindTransport
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// envelope is the error shape every backend response is expected to
// satisfy on failure.
type envelope struct {
	Error string `json:"error"`
}

// failureMessage resolves the user-facing message for a response outside
// the accepted set: structured error field first, then a fixed fallback
// that depends on whether the server claimed success.
func failureMessage(bodyError string, status int) string {
	if bodyError != "" {
		return bodyError
	}
	if status >= 200 && status < 300 {
		return fallbackUnexpected
	}
	return fallbackFailed
}

// transportMessage resolves the user-facing message for a network-level
// failure: the transport error text, or the fixed default when there is
// none.
func transportMessage(err error) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallbackFailed
}
