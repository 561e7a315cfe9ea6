package core

import "errors"

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrNotFound      = errors.New("expense not found")
	ErrInvalidInput  = errors.New("invalid request body")
)

// StoreError wraps a failure of the underlying persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err originated in the persistence layer.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
