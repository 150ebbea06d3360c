package interfaces

import (
	"context"
	"errors"
	"io"
)

// ErrMalformedURL is returned by HTTPClient implementations when the URL is
// structurally invalid and no request was attempted. Callers treat it
// differently from ordinary non-success responses: a malformed reference is
// discarded entirely rather than retried.
var ErrMalformedURL = errors.New("malformed URL")

// HTTPClient defines the interface for making HTTP requests.
// This abstraction allows for easy mocking in tests and switching between
// different HTTP client implementations.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	// Returns ErrMalformedURL (possibly wrapped) when the URL cannot be
	// parsed into a scheme and host.
	Get(ctx context.Context, url string) (Response, error)
}

// Response defines the interface for HTTP responses.
// This abstraction allows different HTTP client implementations to provide
// their own response types while maintaining a consistent interface.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Returns an empty string if the header is not present.
	Header(key string) string
}
