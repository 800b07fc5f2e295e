package config

import (
	"errors"
	"fmt"
)

// validate checks the merged [StructuredConfig] before it is used at
// startup. All violations are reported together.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: unsupported driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver))
	}
	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs))
	}

	if cfg.Server.HTTPAddress == "" {
		errs = append(errs, fmt.Errorf("%w: empty HTTP address", ErrInvalidServerConfigs))
	}

	if cfg.App.TokenSignKey == "" {
		errs = append(errs, fmt.Errorf("%w: empty token sign key", ErrInvalidAppConfigs))
	}

	p := cfg.Devices
	if p.DesktopPriority < 0 || p.LaptopPriority < 0 || p.TabletPriority < 0 || p.PhonePriority < 0 || p.FallbackPriority < 0 {
		errs = append(errs, fmt.Errorf("%w: negative priority", ErrInvalidDeviceConfigs))
	}

	if cfg.Sync.MaxCommitAttempts < 1 {
		errs = append(errs, fmt.Errorf("%w: max commit attempts must be positive", ErrInvalidSyncConfigs))
	}

	if cfg.Notify.SendBuffer < 1 || cfg.Notify.QueueSize < 1 || cfg.Notify.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: buffers and workers must be positive", ErrInvalidNotifyConfigs))
	}
	if cfg.Notify.FCMEnabled() && cfg.Notify.FCMCredentialsFile == "" {
		errs = append(errs, fmt.Errorf("%w: fcm project set without credentials file", ErrInvalidNotifyConfigs))
	}

	return errors.Join(errs...)
}
