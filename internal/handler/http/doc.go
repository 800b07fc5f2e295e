// Package http implements the REST and websocket surface of the sync
// service.
//
// Routes are wired with chi in routes.go. Authentication, request tracing,
// access logging, compression and body integrity checks run as middleware
// before a request reaches the service layer.
package http
