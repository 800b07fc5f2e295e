package service

import "errors"

var (
	// ErrValidation wraps every input error found before storage is touched.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownDevice is returned when the writing device is not registered
	// to the user or has been deactivated.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrDeviceOwnedByAnotherUser is returned when a registration names a
	// device_id that belongs to a different user.
	ErrDeviceOwnedByAnotherUser = errors.New("device is registered to another user")

	// ErrStorage wraps repository failures. The sync is safe to retry.
	ErrStorage = errors.New("storage failure")

	// ErrCommitAttemptsExhausted is returned when every commit attempt lost a
	// race against concurrent writers.
	ErrCommitAttemptsExhausted = errors.New("commit attempts exhausted")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
