// Package client talks to the bookshelf HTTP API on behalf of the terminal
// client.
//
// # Overview
//
// Client is the transport-agnostic contract; HTTPClient implements it over
// go-resty with a cookie jar, so the session cookie set by register/login is
// replayed on later calls and dropped again on logout.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers are returned as
// *APIError carrying the server's message; it matches ErrUnauthorized,
// ErrNotFound or ErrRateLimited under errors.Is where applicable.
//
// All operations accept context.Context and honor cancellation.
package client
