package outreach

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// AuthError wraps a failure to obtain credentials for an API.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("Auth Error: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx API response. Body is the response text, unmodified.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.Status, e.Body)
}

// DataShapeError reports a worksheet that cannot be scanned, e.g. an empty sheet or
// a missing header column.
type DataShapeError struct {
	Sheet  string
	Reason string
}

func (e *DataShapeError) Error() string {
	if e.Sheet == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Sheet, e.Reason)
}

// NotFoundError reports an email that is not present in the searched scope. It is an
// expected outcome rather than a failure.
type NotFoundError struct {
	Email string
	Scope string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Email not found in %s.", e.Scope)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ResolutionError reports a SentLog source label that does not name any loaded sheet.
type ResolutionError struct {
	Label string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("Looked for %q but could not find it in loaded sheets.", e.Label)
}
