package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates a missing DSN or unsupported driver.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAppConfigs indicates missing token verification settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidDeviceConfigs indicates a malformed priority table.
	ErrInvalidDeviceConfigs = errors.New("invalid device configuration")
	// ErrInvalidSyncConfigs indicates invalid coordinator settings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidNotifyConfigs indicates invalid fan-out settings.
	ErrInvalidNotifyConfigs = errors.New("invalid notify configuration")
	// ErrInvalidClientConfigs indicates invalid command line client settings.
	ErrInvalidClientConfigs = errors.New("invalid client configuration")
)
