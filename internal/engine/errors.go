package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrHeader means the input has no header line or the header is too narrow
	// to carry the fixed column layout.
	ErrHeader = errors.New("invalid header")
	// ErrRowWidth means a row's field count differs from the header's.
	ErrRowWidth = errors.New("row width mismatch")
	// ErrBadYear means column 0 is not an integer year.
	ErrBadYear = errors.New("invalid year")
)

// ParseError reports a malformed data row. Line is 1-based and counts the header.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
