package domain

import "fmt"

// ValidationError reports a caller-fixable problem with the request payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NotFoundError reports that no transaction exists for the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transaction %s not found", e.ID)
}

// InvalidStateError reports an operation that is not legal in the
// transaction's current lifecycle state.
type InvalidStateError struct {
	ID     string
	Status TransactionStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("transaction %s already processed (status %s)", e.ID, e.Status)
}

// StorageError wraps a store-level failure. Not locally recoverable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
