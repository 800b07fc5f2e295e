package store

import "github.com/MKhiriev/device-sync/internal/logger"

// Storages bundles the repositories handed to the service layer.
type Storages struct {
	DeviceRepository    DeviceRepository
	SyncStateRepository SyncStateRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		DeviceRepository:    NewDeviceRepository(db, log),
		SyncStateRepository: NewSyncStateRepository(db, log),
	}
}
