package models

import "time"

// DeviceType is the hardware class a client reports on registration.
type DeviceType string

const (
	DeviceTypePhone   DeviceType = "phone"
	DeviceTypeTablet  DeviceType = "tablet"
	DeviceTypeLaptop  DeviceType = "laptop"
	DeviceTypeDesktop DeviceType = "desktop"
)

// IsKnown reports whether t is one of the device types that has its own
// entry in [DevicePriorities].
func (t DeviceType) IsKnown() bool {
	switch t {
	case DeviceTypePhone, DeviceTypeTablet, DeviceTypeLaptop, DeviceTypeDesktop:
		return true
	}
	return false
}

// DevicePriorities is the table used to assign the initial conflict
// resolution priority of a newly registered device. Higher wins.
type DevicePriorities struct {
	Desktop  int `json:"desktop"`
	Laptop   int `json:"laptop"`
	Tablet   int `json:"tablet"`
	Phone    int `json:"phone"`
	Fallback int `json:"fallback"`
}

// DefaultDevicePriorities returns the priority table used when none is
// configured.
func DefaultDevicePriorities() DevicePriorities {
	return DevicePriorities{
		Desktop:  100,
		Laptop:   80,
		Tablet:   60,
		Phone:    40,
		Fallback: 50,
	}
}

// For returns the priority for the given device type, or Fallback when the
// type has no entry of its own.
func (p DevicePriorities) For(t DeviceType) int {
	switch t {
	case DeviceTypeDesktop:
		return p.Desktop
	case DeviceTypeLaptop:
		return p.Laptop
	case DeviceTypeTablet:
		return p.Tablet
	case DeviceTypePhone:
		return p.Phone
	default:
		return p.Fallback
	}
}

// Device is a registered client of a user.
//
// DeviceID is unique across all users. Priority is assigned once on first
// registration and is not recomputed afterwards.
type Device struct {
	DeviceID   string     `json:"device_id"`
	UserID     string     `json:"user_id"`
	DeviceType DeviceType `json:"device_type"`
	Priority   int        `json:"priority"`

	DeviceName string `json:"device_name,omitempty"`
	OSType     string `json:"os_type,omitempty"`
	OSVersion  string `json:"os_version,omitempty"`
	AppVersion string `json:"app_version,omitempty"`

	// PushToken is the FCM registration token of the device, if any.
	PushToken string `json:"-"`

	LastSeen  time.Time `json:"last_seen"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DeviceMetadata holds the descriptive, mutable fields a client sends on
// every registration.
type DeviceMetadata struct {
	DeviceName string `json:"device_name"`
	OSType     string `json:"os_type"`
	OSVersion  string `json:"os_version"`
	AppVersion string `json:"app_version"`
	PushToken  string `json:"push_token,omitempty"`
}
