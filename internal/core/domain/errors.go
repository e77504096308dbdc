package domain

import "errors"

// Domain errors represent failures the browser can recover from.
// None of them are fatal; the browser keeps showing the last good state.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport indicates the search endpoint could not be reached
	// or answered with a non-2xx status.
	ErrTransport = errors.New("transport error")

	// ErrMalformedResponse indicates the search endpoint answered with a body
	// that is not a valid result page (bad JSON, missing total/results,
	// or more items than allowed). It is handled like a transport error.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRateLimited indicates the search endpoint rejected the request with 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrBrowserClosed indicates an operation on a browser after Close.
	ErrBrowserClosed = errors.New("browser closed")
)
