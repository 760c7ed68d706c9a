package client

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a resource that does not exist upstream (HTTP 404).
// It is a result marker, not a failure: callers convert it to sentinel
// rows/values locally and it never aborts a run.
var ErrNotFound = errors.New("resource not found")

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// classifyStatus categorizes an HTTP status code for observability.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// APIError represents a non-404 unsuccessful Canvas response. It propagates
// unhandled through the accessors and the batch runner to the caller.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Endpoint   string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("canvas %s error (status %d) on %s: %s",
		e.ErrorClass, e.StatusCode, e.Endpoint, body)
}
