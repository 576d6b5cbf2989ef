package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the short summary returned to clients in the "error" field.
type ErrorKind string

const (
	ErrorKindToolFailed          ErrorKind = "alignment tool failed"
	ErrorKindNoOutput            ErrorKind = "no output produced"
	ErrorKindParseFailed         ErrorKind = "output parse failed"
	ErrorKindUnsupportedLanguage ErrorKind = "unsupported language"
	ErrorKindInvalidRequest      ErrorKind = "invalid request"
)

// AlignmentError is a handled failure of the alignment pipeline.
type AlignmentError struct {
	Kind     ErrorKind
	Stderr   string
	Language string
	Err      error
}

func (e *AlignmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *AlignmentError) Unwrap() error {
	return e.Err
}

// AsAlignmentError reports whether err carries an *AlignmentError.
func AsAlignmentError(err error) (*AlignmentError, bool) {
	var alignErr *AlignmentError
	if errors.As(err, &alignErr) {
		return alignErr, true
	}
	return nil, false
}
