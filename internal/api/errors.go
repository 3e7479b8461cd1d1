package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured backend failure. Message carries the
// server-supplied human-readable text when the response had one.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// IsNotFound reports whether err is a backend 404. The user bootstrap
// flow uses this as the "does not exist yet" signal.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// UserMessage extracts a message fit for display from err, preferring the
// server-supplied one and falling back to the given generic text.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
