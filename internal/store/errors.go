package store

import "errors"

// Sentinel errors returned by repositories and query sets to signal
// well-known failure conditions. Callers should use [errors.Is] to match
// against these values.
var (
	// ErrNotFound is returned when a lookup expected to match exactly one row
	// matches none, or when an update or delete targets a missing row.
	ErrNotFound = errors.New("object not found")

	// ErrMultipleObjectsReturned is returned by [QuerySet.Get] when the
	// lookup matches more than one row.
	ErrMultipleObjectsReturned = errors.New("multiple objects returned")

	// ErrAlreadyExists is returned when a write violates a unique constraint.
	ErrAlreadyExists = errors.New("object already exists")

	// ErrInvalidReference is returned when a write violates a foreign key or
	// not-null constraint.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidLookup is returned when a filter, exclusion or ordering names
	// an unknown field or lookup, or carries a value that does not fit the
	// field type.
	ErrInvalidLookup = errors.New("invalid lookup")

	// ErrInvalidModel is returned when a model type cannot be mapped to a
	// table (no `db` tags, or no "id" column).
	ErrInvalidModel = errors.New("invalid model")

	// ErrInvalidFileName is returned by file storage when a stored name
	// escapes the media root.
	ErrInvalidFileName = errors.New("invalid file name")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a model fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails
	// mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
