package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRecord is returned by Insert when (employee, date) is taken.
	ErrDuplicateRecord = errors.New("attendance record already exists")
	// ErrRecordNotFound is returned by UpdatePunchOut when no open record matches.
	ErrRecordNotFound = errors.New("no open attendance record")
	// ErrSchemaTooNew means the database was written by a newer build.
	ErrSchemaTooNew = errors.New("database schema is newer than this build supports")
	// ErrSchemaMismatch means an unversioned attendance table has an unknown shape.
	ErrSchemaMismatch = errors.New("unrecognized attendance table layout")
)

// StorageError wraps any fault raised by the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
