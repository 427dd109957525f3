package domain

import "fmt"

type StoreErrorKind string

const (
	StoreNotFound            StoreErrorKind = "not_found"
	StoreConnectionFailed    StoreErrorKind = "connection_failed"
	StoreConstraintViolation StoreErrorKind = "constraint_violation"
)

// StoreError is returned by every Registry Store write that fails.
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func NewStoreError(kind StoreErrorKind, op string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
