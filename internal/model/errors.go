package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the base series has no rows.
	ErrEmptyInput = errors.New("empty input series")
	// ErrMalformedInput is wrapped by every MalformedInputError.
	ErrMalformedInput = errors.New("malformed input series")
)

// MalformedInputError reports unordered or duplicate timestamps in a series
// that must be strictly increasing.
type MalformedInputError struct {
	Series string
	Index  int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", e.Series, e.Index, e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }

// AuxiliarySourceUnavailable records an auxiliary source that failed or
// returned nothing. It is recovered by the aligner and never surfaced as an error.
type AuxiliarySourceUnavailable struct {
	Source string
	Err    error
}

func (a AuxiliarySourceUnavailable) String() string {
	if a.Err == nil {
		return a.Source + ": no data"
	}
	return fmt.Sprintf("%s: %v", a.Source, a.Err)
}
