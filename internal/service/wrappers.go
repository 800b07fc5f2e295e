package service

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// tracing or metrics.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService
}
