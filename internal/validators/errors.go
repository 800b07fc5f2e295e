package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID     = errors.New("invalid user ID")
	ErrInvalidDeviceID   = errors.New("invalid device ID")
	ErrInvalidDeviceType = errors.New("invalid device type")
	ErrInvalidMetadata   = errors.New("invalid device metadata")
	ErrInvalidDomain     = errors.New("invalid domain")
	ErrInvalidEntityID   = errors.New("invalid entity ID")
	ErrInvalidVersion    = errors.New("invalid version")
	ErrInvalidModifiedAt = errors.New("invalid modified_at")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrEmptyBatch        = errors.New("batch cannot be empty")
	ErrBatchTooLarge     = errors.New("batch has too many items")
)
