package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/device-sync/internal/service"
	"github.com/MKhiriev/device-sync/models"
)

type errorStatus struct {
	err    error
	status int
}

// errorStatuses is checked in order; the first match wins.
var errorStatuses = []errorStatus{
	{service.ErrDeviceOwnedByAnotherUser, http.StatusForbidden},
	{service.ErrUnknownDevice, http.StatusNotFound},
	{service.ErrTokenIsExpired, http.StatusUnauthorized},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
	{ErrNoUserID, http.StatusUnauthorized},
	{service.ErrValidation, http.StatusBadRequest},
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrInvalidEntityID, http.StatusBadRequest},
	{ErrNoDeviceID, http.StatusBadRequest},
	{ErrIntegrityCheckFailed, http.StatusBadRequest},
	{service.ErrStorage, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError hides server faults from clients.
func messageFromError(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

func statusFromOutcome(outcome models.SyncOutcome) int {
	switch outcome.Status {
	case models.SyncStatusSynced:
		return http.StatusOK
	case models.SyncStatusConflictResolved:
		return http.StatusConflict
	}

	switch outcome.ErrorKind {
	case models.SyncErrorUnknownDevice:
		return http.StatusNotFound
	case models.SyncErrorValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	http.Error(w, messageFromError(err, status), status)
}
