package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when a query targets a row (identified by id
	// or lookup key) that does not exist in the local database.
	ErrNotFound = errors.New("row was not found")

	// ErrKeyNotFound is returned by the key-value repository when the
	// requested key has never been written or has been deleted.
	ErrKeyNotFound = errors.New("key was not found")

	// ErrNotSaved is returned when an INSERT completes without error but
	// the number of affected rows is zero, indicating that no data was
	// actually persisted.
	ErrNotSaved = errors.New("row was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
