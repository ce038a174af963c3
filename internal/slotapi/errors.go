package slotapi

import "fmt"

// APIError means the service was reachable but answered with a non-success
// status. Body carries the (possibly truncated) response text for display.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("slotapi: status %d", e.Status)
	}
	return fmt.Sprintf("slotapi: status %d: %s", e.Status, e.Body)
}

// NetworkError means the transport itself failed before an HTTP status was
// obtained.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("slotapi: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
