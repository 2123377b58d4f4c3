package model

import (
	"fmt"
	"strings"
)

// LoadError reports an input file that is missing, unreadable or not tabular
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports columns that a stage requires but the table lacks
type SchemaError struct {
	Stage   string   // Stage that performed the check
	Missing []string // Required columns that were absent
	Err     error    // Underlying cause, if any
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("schema check failed in %s: missing columns [%s]",
		e.Stage, strings.Join(e.Missing, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ParseError is a soft, row-level failure. The row carrying the value is
// dropped and processing continues.
type ParseError struct {
	Column        string
	Value         string
	RowIdentifier string
	Err           error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q (row %s): %v", e.Column, e.Value, e.RowIdentifier, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
