package model

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

var (
	// ErrDataUnavailable marks a missing or unreadable source file, or one
	// whose header lacks a required column. Callers show an empty state.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMalformedRow marks a single row that failed type coercion. The row is
	// excluded from every aggregate.
	ErrMalformedRow = errors.New("malformed row")
)

// ErrorKind classifies a DataError.
type ErrorKind string

const (
	KindDataUnavailable ErrorKind = "DATA_UNAVAILABLE"
	KindMalformedRow    ErrorKind = "MALFORMED_ROW"
)

// DataError carries the source location of a loader failure and the stack at
// the point it was raised.
type DataError struct {
	Kind   ErrorKind
	Path   string
	Line   int    // 0 when the error is not tied to a row
	Column string // empty when the error is not tied to a column
	Err    error
	Stack  []byte
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Path)
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a DataError against the kind sentinels.
func (e *DataError) Is(target error) bool {
	switch target {
	case ErrDataUnavailable:
		return e.Kind == KindDataUnavailable
	case ErrMalformedRow:
		return e.Kind == KindMalformedRow
	}
	return false
}

// StackTrace returns the stack captured when the error was created.
func (e *DataError) StackTrace() []byte {
	return e.Stack
}

func newDataError(kind ErrorKind, path string, line int, column string, err error) *DataError {
	var stack []byte
	if err != nil {
		stack = goerrors.Wrap(err, 2).Stack()
	} else {
		stack = goerrors.New(string(kind)).Stack()
	}
	return &DataError{Kind: kind, Path: path, Line: line, Column: column, Err: err, Stack: stack}
}

// Unavailable builds a DataUnavailable error for path.
func Unavailable(path string, err error) *DataError {
	return newDataError(KindDataUnavailable, path, 0, "", err)
}

// MissingColumn builds a DataUnavailable error for a header that lacks column.
func MissingColumn(path, column string) *DataError {
	return newDataError(KindDataUnavailable, path, 0, column, errors.New("required column missing"))
}

// Malformed builds a MalformedRow error for one row.
func Malformed(path string, line int, column string, err error) *DataError {
	return newDataError(KindMalformedRow, path, line, column, err)
}
