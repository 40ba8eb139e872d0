package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeUnknownTable indicates a referenced table is absent from the catalog.
	ErrCodeUnknownTable ErrorCode = "UNKNOWN_TABLE"

	// ErrCodeDuplicateTable indicates CREATE on an existing table name.
	ErrCodeDuplicateTable ErrorCode = "DUPLICATE_TABLE"

	// ErrCodeUnknownColumn indicates a reference to a column the table does not declare.
	ErrCodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeInvalidJoinSpec indicates a join whose column pair cannot be resolved.
	ErrCodeInvalidJoinSpec ErrorCode = "INVALID_JOIN_SPEC"

	// ErrCodePersistenceFailure indicates the persister failed to load or save.
	ErrCodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"

	// ErrCodeInvalidQuery indicates a malformed query description.
	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"
)

// Error is a typed failure returned by the catalog and the engine.
//
// Structural errors (unknown table/column, duplicate table, invalid join)
// are always returned to the caller; they are never turned into empty results.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Table names the table involved, when known.
	Table string

	// Column names the column involved, when known.
	Column string

	// Err is the underlying cause (persistence failures).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.Table != "" && e.Column != "":
		msg = fmt.Sprintf("%s (table=%s, column=%s)", msg, e.Table, e.Column)
	case e.Table != "":
		msg = fmt.Sprintf("%s (table=%s)", msg, e.Table)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUnknownTable returns true if err is an unknown table error.
func IsUnknownTable(err error) bool { return CodeOf(err) == ErrCodeUnknownTable }

// IsDuplicateTable returns true if err is a duplicate table error.
func IsDuplicateTable(err error) bool { return CodeOf(err) == ErrCodeDuplicateTable }

// IsUnknownColumn returns true if err is an unknown column error.
func IsUnknownColumn(err error) bool { return CodeOf(err) == ErrCodeUnknownColumn }

// IsInvalidJoinSpec returns true if err is an invalid join error.
func IsInvalidJoinSpec(err error) bool { return CodeOf(err) == ErrCodeInvalidJoinSpec }

// IsPersistenceFailure returns true if err is a persistence failure.
func IsPersistenceFailure(err error) bool { return CodeOf(err) == ErrCodePersistenceFailure }

// IsInvalidQuery returns true if err is a malformed query error.
func IsInvalidQuery(err error) bool { return CodeOf(err) == ErrCodeInvalidQuery }

// NewUnknownTableError creates an Error for a missing table.
func NewUnknownTableError(table string) *Error {
	return &Error{
		Code:    ErrCodeUnknownTable,
		Message: fmt.Sprintf("table %q does not exist", table),
		Table:   table,
	}
}

// NewDuplicateTableError creates an Error for CREATE on an existing name.
func NewDuplicateTableError(table string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateTable,
		Message: fmt.Sprintf("table %q already exists", table),
		Table:   table,
	}
}

// NewUnknownColumnError creates an Error for an undeclared column.
func NewUnknownColumnError(table, column string) *Error {
	return &Error{
		Code:    ErrCodeUnknownColumn,
		Message: fmt.Sprintf("column %q is not declared", column),
		Table:   table,
		Column:  column,
	}
}

// NewInvalidJoinError creates an Error for an unresolvable join.
func NewInvalidJoinError(table, reason string) *Error {
	return &Error{
		Code:    ErrCodeInvalidJoinSpec,
		Message: reason,
		Table:   table,
	}
}

// NewPersistenceError wraps a persister failure.
func NewPersistenceError(op string, err error) *Error {
	return &Error{
		Code:    ErrCodePersistenceFailure,
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}

// NewInvalidQueryError creates an Error for a malformed query description.
func NewInvalidQueryError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidQuery,
		Message: fmt.Sprintf(format, args...),
	}
}
