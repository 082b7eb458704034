package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is matched by every SourceUnavailableError.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrPipelineFinalized is returned when a finalized pipeline is run again.
	ErrPipelineFinalized = errors.New("pipeline already finalized")
)

// SourceUnavailableError reports that a source could not be opened, its schema
// could not be read, or reading a record failed. It aborts the comparison.
type SourceUnavailableError struct {
	Source string
	Side   Side
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s source %q unavailable: %v", e.Side, e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSourceUnavailable) hold.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// UnsortedInputError reports that a keyed source yielded a key lower than its
// predecessor. It aborts the comparison.
type UnsortedInputError struct {
	Side     Side
	Ordinal  int64
	Key      Key
	Previous Key
}

func (e *UnsortedInputError) Error() string {
	return fmt.Sprintf("%s source is not sorted by key: row %d has key %q after %q",
		e.Side, e.Ordinal, e.Key.String(), e.Previous.String())
}

// KeyColumnError reports a configured key column that a source does not declare.
type KeyColumnError struct {
	Side   Side
	Column string
}

func (e *KeyColumnError) Error() string {
	return fmt.Sprintf("key column %q not found in %s source", e.Column, e.Side)
}

// DuplicateKeyError records a key that occurs more than once in at least one
// source. It is reported per key and does not abort the comparison.
type DuplicateKeyError struct {
	Key        string
	LeftCount  int
	RightCount int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q: %d left rows, %d right rows", e.Key, e.LeftCount, e.RightCount)
}

// SchemaMismatchError records a column declared by only one source.
type SchemaMismatchError struct {
	Column string `json:"column" yaml:"column"`
	Side   Side   `json:"only_in" yaml:"only_in"`
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("column %q only present in %s source", e.Column, e.Side)
}
