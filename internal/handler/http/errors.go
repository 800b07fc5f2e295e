package http

import "errors"

// Sentinel errors of the transport layer.
var (
	// ErrEmptyAuthorizationHeader is returned when the request carries no
	// "Authorization" header.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrNoUserID means a protected handler ran without the auth middleware.
	ErrNoUserID = errors.New("no user ID in request context")

	ErrInvalidJSON     = errors.New("invalid JSON was passed")
	ErrInvalidEntityID = errors.New("entity_id must be a UUID")
	ErrNoDeviceID      = errors.New("device_id query parameter is required")

	// ErrIntegrityCheckFailed is returned when the HashSHA256 header does not
	// match the body.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
)
