package audit

import (
	"errors"
	"fmt"
)

var (
	// ErrRecorderClosed is returned when recording after Close.
	ErrRecorderClosed = errors.New("audit: recorder closed")

	// ErrBufferFull is returned when a record could not be queued within
	// the write timeout.
	ErrBufferFull = errors.New("audit: record buffer full")
)

// StorageError wraps a backend failure with the operation that failed.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s failed: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
