package core

import (
	"errors"
	"fmt"
)

// Predefined errors returned by sqlbind operations.
var (
	// ErrUnsupportedType is returned when the dynamic converter receives a
	// value whose runtime type has no registered conversion.
	ErrUnsupportedType = errors.New("unsupported parameter type")
	// ErrTypeMismatch is returned when a column cannot be coerced to the
	// requested type.
	ErrTypeMismatch = errors.New("column type mismatch")
	// ErrWrongResultKind is returned when the update-count accessor is used
	// on a query result or the cursor accessor on an update result.
	ErrWrongResultKind = errors.New("wrong result kind")
	// ErrInvalidConfig is returned when a required statement field is
	// missing, such as empty SQL text.
	ErrInvalidConfig = errors.New("invalid statement configuration")
	// ErrNoColumn is returned when a column position or label does not exist
	// in the result set.
	ErrNoColumn = errors.New("no such column")
)

// TypeMismatchError reports a failed column coercion, carrying the requested
// native type and the actual driver value.
type TypeMismatchError struct {
	Requested string // native type that was requested
	Column    string // column position or label, as addressed by the caller
	Value     any    // driver value that could not be coerced
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %s: cannot coerce %T (%v) to %s",
		e.Column, e.Value, e.Value, e.Requested)
}

// Unwrap makes errors.Is(err, ErrTypeMismatch) hold.
func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// DriverError wraps a failure surfaced by the underlying driver with the
// operation that triggered it. Driver failures are never retried.
type DriverError struct {
	Op  string // prepare, bind, execute, read, ...
	Err error
}

func (e *DriverError) Error() string {
	return "driver: " + e.Op + ": " + e.Err.Error()
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// driverErr wraps err as a DriverError unless it already is one.
func driverErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DriverError
	if errors.As(err, &de) {
		return err
	}
	return &DriverError{Op: op, Err: err}
}
