package reconcile

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Side identifies which of the two compared sources a row or column belongs to.
type Side string

const (
	// SideLeft is the first (reference) source.
	SideLeft Side = "left"
	// SideRight is the second source.
	SideRight Side = "right"
)

// Key identifies a logical row across both sources.
// It holds the values of the configured key columns, in key column order.
// When no key columns are configured it holds the row ordinal.
type Key []string

// String returns the key components joined by "|".
func (k Key) String() string {
	return strings.Join(k, "|")
}

// Row is a single record produced by a source, with its derived key.
type Row struct {
	// Key is derived from the configured key columns (or the ordinal).
	Key Key

	// Fields holds the field values in source column order.
	// It always has exactly one value per declared column.
	Fields []string

	// Ordinal is the 1-based position of the row in its source, header excluded.
	Ordinal int64
}

// RowSource produces the records of one tabular origin.
// Columns must be available before the first call to Next.
// Next returns io.EOF once the source is exhausted. Sources are not restartable.
type RowSource interface {
	// Columns returns the ordered column names.
	Columns() []string

	// Next returns the next record. It must read incrementally.
	Next(ctx context.Context) ([]string, error)

	// Close releases the underlying file handle, object stream or connection.
	Close() error
}

// Opener acquires a RowSource. The pipeline owns the returned source and
// closes it on every exit path.
type Opener interface {
	// Name is a human readable description (path, object URL, query).
	Name() string

	// Open acquires the source.
	Open(ctx context.Context) (RowSource, error)
}

// KeyOrder defines how keys are ordered when checking the sort order of keyed sources.
type KeyOrder string

const (
	// KeyOrderText compares key components byte-wise.
	KeyOrderText KeyOrder = "text"
	// KeyOrderNumeric compares key components numerically when both parse as numbers.
	KeyOrderNumeric KeyOrder = "numeric"
)

// DefaultMaxFailures is the default number of failing records retained in a report.
const DefaultMaxFailures = 1000

// Spec defines the configuration for a comparison.
type Spec struct {
	// KeyColumns are the columns identifying a row in both sources.
	// If empty, rows are paired by position.
	KeyColumns []string

	// KeyOrder is the ordering both keyed sources are expected to be sorted by.
	// Defaults to KeyOrderText.
	KeyOrder KeyOrder

	// IgnoreColumns are excluded from value comparison.
	IgnoreColumns []string

	// MaxFailures bounds the failing records retained in the report.
	// Zero retains none; use DefaultMaxFailures for the usual limit.
	MaxFailures int

	// Logger receives progress logs. Nil disables logging.
	Logger *zap.Logger
}

// Outcome classifies a key after alignment and comparison.
type Outcome string

const (
	// OutcomeMatched means both sources have the key and all compared fields agree.
	OutcomeMatched Outcome = "matched"
	// OutcomeMismatched means both sources have the key and at least one field differs.
	OutcomeMismatched Outcome = "mismatched"
	// OutcomeLeftOnly means only the left source has the key.
	OutcomeLeftOnly Outcome = "left_only"
	// OutcomeRightOnly means only the right source has the key.
	OutcomeRightOnly Outcome = "right_only"
	// OutcomeDuplicate means at least one source has the key more than once.
	OutcomeDuplicate Outcome = "duplicate"
)

// FieldDiff describes one differing column of a mismatched row.
type FieldDiff struct {
	Column string `json:"column" yaml:"column"`
	Left   string `json:"left" yaml:"left"`
	Right  string `json:"right" yaml:"right"`
}

// Failure is a retained failing record.
type Failure struct {
	// Outcome is one of mismatched, left_only, right_only or duplicate.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Key is the rendered key of the record.
	Key string `json:"key" yaml:"key"`

	// LeftOrdinal is the row position in the left source, 0 if absent.
	LeftOrdinal int64 `json:"left_row,omitempty" yaml:"left_row,omitempty"`

	// RightOrdinal is the row position in the right source, 0 if absent.
	RightOrdinal int64 `json:"right_row,omitempty" yaml:"right_row,omitempty"`

	// Diffs lists the differing columns of a mismatched record.
	Diffs []FieldDiff `json:"diffs,omitempty" yaml:"diffs,omitempty"`

	// Values holds the fields of the present row for left_only and right_only records.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`

	// LeftCount and RightCount hold the row counts of a duplicate key.
	LeftCount  int `json:"left_count,omitempty" yaml:"left_count,omitempty"`
	RightCount int `json:"right_count,omitempty" yaml:"right_count,omitempty"`
}

// ColumnStat is the mismatch tally of one compared column.
type ColumnStat struct {
	Name       string `json:"name" yaml:"name"`
	Mismatches int64  `json:"mismatches" yaml:"mismatches"`
}

// SourceSummary describes one compared source.
type SourceSummary struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    int64    `json:"rows" yaml:"rows"`
}

// Report is the finalized result of a comparison. It is never modified after
// Compare returns it.
type Report struct {
	Left       SourceSummary `json:"left" yaml:"left"`
	Right      SourceSummary `json:"right" yaml:"right"`
	KeyColumns []string      `json:"key_columns,omitempty" yaml:"key_columns,omitempty"`

	Passed     int64 `json:"passed" yaml:"passed"`
	Failed     int64 `json:"failed" yaml:"failed"`
	LeftOnly   int64 `json:"left_only" yaml:"left_only"`
	RightOnly  int64 `json:"right_only" yaml:"right_only"`
	Duplicates int64 `json:"duplicates" yaml:"duplicates"`

	// CellDifferences is the total number of differing fields across mismatched rows.
	CellDifferences int64 `json:"cell_differences" yaml:"cell_differences"`

	// Columns holds one entry per compared column, in left schema order.
	Columns []ColumnStat `json:"columns" yaml:"columns"`

	// SchemaMismatches lists the columns declared by only one source.
	SchemaMismatches []SchemaMismatchError `json:"schema_mismatches,omitempty" yaml:"schema_mismatches,omitempty"`

	// Failures holds failing records in stream order, up to the retention limit.
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Truncated is set when more failing records were seen than retained.
	Truncated bool `json:"truncated" yaml:"truncated"`
}

// TotalKeys returns the number of distinct keys observed across both sources.
func (r *Report) TotalKeys() int64 {
	return r.Passed + r.Failed + r.LeftOnly + r.RightOnly + r.Duplicates
}

// FailureCount returns the number of keys that did not match.
func (r *Report) FailureCount() int64 {
	return r.Failed + r.LeftOnly + r.RightOnly + r.Duplicates
}

// HasFailures reports whether any key did not match.
func (r *Report) HasFailures() bool {
	return r.FailureCount() > 0
}

// DuplicateKeys returns the retained duplicate keys.
func (r *Report) DuplicateKeys() []*DuplicateKeyError {
	var dups []*DuplicateKeyError
	for _, f := range r.Failures {
		if f.Outcome == OutcomeDuplicate {
			dups = append(dups, &DuplicateKeyError{Key: f.Key, LeftCount: f.LeftCount, RightCount: f.RightCount})
		}
	}
	return dups
}

// ColumnStats returns the non-zero mismatch counts keyed by column name.
func (r *Report) ColumnStats() map[string]int64 {
	stats := make(map[string]int64)
	for _, c := range r.Columns {
		if c.Mismatches > 0 {
			stats[c.Name] = c.Mismatches
		}
	}
	return stats
}
