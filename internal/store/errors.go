package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDeviceNotFound is returned when no device with the given id belongs
	// to the user.
	ErrDeviceNotFound = errors.New("device was not found")

	// ErrDeviceOwnedByAnotherUser is returned by a device upsert when the
	// device id is already registered to a different user. Nothing is written.
	ErrDeviceOwnedByAnotherUser = errors.New("device is registered to another user")

	// ErrNoPriorState is returned when an entity has no sync state on any of
	// the user's devices. For a first write this is the expected outcome.
	ErrNoPriorState = errors.New("no prior sync state")

	// ErrStaleSyncVersion is returned by a commit that lost a race: another
	// device committed a higher version, or a concurrent insert of the same
	// key won. The caller should repeat the conflict check.
	ErrStaleSyncVersion = errors.New("sync version is stale")

	// ErrTransient marks failures the database reports as safe to retry,
	// such as serialization failures, deadlocks and busy SQLite locks.
	ErrTransient = errors.New("transient database error")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrUnsupportedDriver is returned by [NewConnect] for a driver other
	// than Postgres or SQLite.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
