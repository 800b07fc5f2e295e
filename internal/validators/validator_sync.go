package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldUserID     = "user_id"
	FieldDeviceID   = "device_id"
	FieldDeviceType = "device_type"
	FieldMetadata   = "metadata"
	FieldDomain     = "domain"
	FieldEntityID   = "entity_id"
	FieldVersion    = "version"
	FieldModifiedAt = "modified_at"
	FieldPayload    = "payload"
	FieldItems      = "items"
)

// MaxBatchItems bounds the number of writes in one batch request.
const MaxBatchItems = 100

const (
	maxDeviceNameLen = 255
	maxShortFieldLen = 64
	maxPushTokenLen  = 4096
)

var (
	deviceIDPattern   = regexp.MustCompile(`^[\x21-\x7E]{1,128}$`)
	deviceTypePattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)
	domainPattern     = regexp.MustCompile(`^[a-z][a-z0-9_.-]{0,63}$`)
)

// SyncValidator validates device registration and sync inputs.
//
// Device types outside the known set pass as long as they are well formed;
// the registry assigns them the fallback priority.
type SyncValidator struct {
}

func NewSyncValidator() Validator {
	return &SyncValidator{}
}

func (v *SyncValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterDeviceRequest:
		return v.validateRegisterDevice(ctx, value, fields...)
	case *models.RegisterDeviceRequest:
		return v.validateRegisterDevice(ctx, *value, fields...)

	case models.SyncWrite:
		return v.validateSyncWrite(ctx, value, fields...)
	case *models.SyncWrite:
		return v.validateSyncWrite(ctx, *value, fields...)

	case models.SyncRequest:
		return v.validateSyncRequest(ctx, value, fields...)
	case *models.SyncRequest:
		return v.validateSyncRequest(ctx, *value, fields...)

	case models.BatchSyncRequest:
		return v.validateBatchSyncRequest(ctx, value, fields...)
	case *models.BatchSyncRequest:
		return v.validateBatchSyncRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// ValidDeviceID reports whether id is a non-empty printable token.
func ValidDeviceID(id string) bool {
	return deviceIDPattern.MatchString(id)
}

func (v *SyncValidator) validateRegisterDevice(_ context.Context, req models.RegisterDeviceRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDeviceID, FieldDeviceType, FieldMetadata}
	}

	for _, f := range fields {
		switch f {
		case FieldDeviceID:
			if !ValidDeviceID(req.DeviceID) {
				return ErrInvalidDeviceID
			}
		case FieldDeviceType:
			if !deviceTypePattern.MatchString(string(req.DeviceType)) {
				return ErrInvalidDeviceType
			}
		case FieldMetadata:
			if err := validateMetadata(req.Metadata); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateMetadata(m models.DeviceMetadata) error {
	switch {
	case len(m.DeviceName) > maxDeviceNameLen:
		return fmt.Errorf("%w: device_name is too long", ErrInvalidMetadata)
	case len(m.OSType) > maxShortFieldLen:
		return fmt.Errorf("%w: os_type is too long", ErrInvalidMetadata)
	case len(m.OSVersion) > maxShortFieldLen:
		return fmt.Errorf("%w: os_version is too long", ErrInvalidMetadata)
	case len(m.AppVersion) > maxShortFieldLen:
		return fmt.Errorf("%w: app_version is too long", ErrInvalidMetadata)
	case len(m.PushToken) > maxPushTokenLen:
		return fmt.Errorf("%w: push_token is too long", ErrInvalidMetadata)
	}
	return nil
}

func (v *SyncValidator) validateSyncWrite(_ context.Context, w models.SyncWrite, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDomain, FieldEntityID, FieldVersion, FieldModifiedAt}
	}

	for _, f := range fields {
		switch f {
		case FieldDomain:
			if !domainPattern.MatchString(w.Domain) {
				return ErrInvalidDomain
			}
		case FieldEntityID:
			if w.EntityID == uuid.Nil {
				return ErrInvalidEntityID
			}
		case FieldVersion:
			if w.Version < 0 {
				return ErrInvalidVersion
			}
		case FieldModifiedAt:
			if w.ModifiedAt.IsZero() {
				return ErrInvalidModifiedAt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateSyncRequest(ctx context.Context, req models.SyncRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDeviceID, FieldDomain, FieldEntityID, FieldVersion, FieldModifiedAt, FieldPayload}
	}

	write := models.SyncWrite{
		Domain:     req.Domain,
		EntityID:   req.EntityID,
		Version:    req.Version,
		ModifiedAt: req.ModifiedAt,
	}

	for _, f := range fields {
		switch f {
		case FieldDeviceID:
			if !ValidDeviceID(req.DeviceID) {
				return ErrInvalidDeviceID
			}
		case FieldDomain, FieldEntityID, FieldVersion, FieldModifiedAt:
			if err := v.validateSyncWrite(ctx, write, f); err != nil {
				return err
			}
		case FieldPayload:
			if _, err := req.Payload.Encode(req.Domain); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateBatchSyncRequest checks the envelope only. Items are validated one
// by one when they are processed so that one bad item does not reject the
// rest.
func (v *SyncValidator) validateBatchSyncRequest(_ context.Context, req models.BatchSyncRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDeviceID, FieldItems}
	}

	for _, f := range fields {
		switch f {
		case FieldDeviceID:
			if !ValidDeviceID(req.DeviceID) {
				return ErrInvalidDeviceID
			}
		case FieldItems:
			if len(req.Items) == 0 {
				return ErrEmptyBatch
			}
			if len(req.Items) > MaxBatchItems {
				return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(req.Items), MaxBatchItems)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
