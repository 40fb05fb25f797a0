package db

import (
	"errors"
	"fmt"
)

// Error categories, matched with errors.Is. The taxonomy follows the
// conventional database client contract: interface errors are misuse of
// the API itself, programming errors are bad statements or references to
// tables no adapter can back, and not-supported errors mark operations
// this layer deliberately rejects.
var (
	ErrInterface    = errors.New("interface error")
	ErrProgramming  = errors.New("programming error")
	ErrNotSupported = errors.New("not supported")
)

// dbError carries a category sentinel, a clean message, and an optional
// underlying cause.
type dbError struct {
	category error
	msg      string
	cause    error
}

func (e *dbError) Error() string { return e.msg }

func (e *dbError) Is(target error) bool { return target == e.category }

func (e *dbError) Unwrap() error { return e.cause }

func newError(category error, format string, args ...any) error {
	return &dbError{category: category, msg: fmt.Sprintf(format, args...)}
}

func wrapError(category error, cause error, format string, args ...any) error {
	return &dbError{category: category, msg: fmt.Sprintf(format, args...), cause: cause}
}

// UnsupportedTableError reports a statement referencing a missing table
// that no resolved adapter can back. It is a programming error.
type UnsupportedTableError struct {
	Table string
}

func (e *UnsupportedTableError) Error() string {
	return fmt.Sprintf("unsupported table: %s", e.Table)
}

// Is makes errors.Is(err, ErrProgramming) match.
func (e *UnsupportedTableError) Is(target error) bool { return target == ErrProgramming }
