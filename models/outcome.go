package models

// SyncStatus is the discriminator of [SyncOutcome].
type SyncStatus string

const (
	SyncStatusSynced           SyncStatus = "synced"
	SyncStatusConflictResolved SyncStatus = "conflict_resolved"
	SyncStatusError            SyncStatus = "error"
)

// SyncErrorKind separates client mistakes from server faults in an error
// outcome.
type SyncErrorKind string

const (
	SyncErrorUnknownDevice SyncErrorKind = "unknown_device"
	SyncErrorValidation    SyncErrorKind = "validation"
	SyncErrorStorage       SyncErrorKind = "storage"
)

// SyncOutcome is the result of one sync call. Exactly one variant is
// populated, selected by Status:
//   - synced: NotifiedDevices and Failures;
//   - conflict_resolved: Resolution;
//   - error: ErrorKind, Message and Err.
type SyncOutcome struct {
	Status SyncStatus

	NotifiedDevices int
	Failures        []DeliveryFailure

	Resolution Resolution

	ErrorKind SyncErrorKind
	Message   string
	Err       error
}

// Synced builds a successful outcome.
func Synced(report FanOutReport) SyncOutcome {
	return SyncOutcome{
		Status:          SyncStatusSynced,
		NotifiedDevices: report.Notified,
		Failures:        report.Failures,
	}
}

// ConflictResolved builds an outcome for a write that was not committed
// because a newer state exists.
func ConflictResolved(resolution Resolution) SyncOutcome {
	return SyncOutcome{
		Status:     SyncStatusConflictResolved,
		Resolution: resolution,
	}
}

// SyncFailed builds an error outcome of the given kind.
func SyncFailed(kind SyncErrorKind, err error) SyncOutcome {
	outcome := SyncOutcome{
		Status:    SyncStatusError,
		ErrorKind: kind,
		Err:       err,
	}
	if err != nil {
		outcome.Message = err.Error()
	}
	return outcome
}

// Response converts the outcome into its wire form.
func (o SyncOutcome) Response() SyncResponse {
	switch o.Status {
	case SyncStatusSynced:
		notified, conflict := o.NotifiedDevices, false
		return SyncResponse{
			Status:           o.Status,
			NotifiedDevices:  &notified,
			Conflict:         &conflict,
			FailedDeliveries: len(o.Failures),
		}
	case SyncStatusConflictResolved:
		conflict := true
		return SyncResponse{
			Status:        o.Status,
			Conflict:      &conflict,
			Resolution:    o.Resolution.Kind,
			WinningDevice: o.Resolution.WinnerDeviceID,
		}
	default:
		message := o.Message
		if o.ErrorKind == SyncErrorStorage {
			// storage details stay in the server log
			message = "storage failure, safe to retry"
		}
		return SyncResponse{
			Status:    SyncStatusError,
			ErrorKind: o.ErrorKind,
			Message:   message,
		}
	}
}
