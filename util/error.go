package util

import (
	"fmt"
)

// Error is a logging-aware error container for failed upstream operations;
// LogMsg is the detailed operator-facing text while SimpleMsg is safe to
// return to callers
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

// Error implements the error interface
func (e Error) Error() string {
	if e.SimpleMsg != "" {
		return e.SimpleMsg
	}
	return e.LogMsg
}

// Log writes the full detail of the error and returns a caller-safe error
func (e Error) Log(context LogContext, prefix string) error {
	message := e.LogMsg
	if message == "" {
		message = e.SimpleMsg
	}
	if prefix != "" {
		message = prefix + ": " + message
	}
	if e.URL != "" {
		message += fmt.Sprintf(" url=%s", e.URL)
	}
	if e.HTTPStatus != 0 {
		message += fmt.Sprintf(" status=%d", e.HTTPStatus)
	}
	if e.Response != "" {
		message += "\nresponse: " + e.Response
	}
	LogAlert(context, message)
	return e
}

// HTTPErr is an error associated with an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

// Error implements the error interface
func (e HTTPErr) Error() string {
	return e.Message
}
