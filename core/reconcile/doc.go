// Package reconcile provides a streaming engine for reconciling two tabular
// sources row by row and column by column.
//
// The engine is designed to compare sources far larger than memory by:
//   - Pulling one record at a time from each source (no full-source indices)
//   - Aligning keyed sources with a single forward merge over sorted keys
//   - Keeping statistics as fixed-size counters (one per compared column)
//   - Retaining failing records only up to a configurable limit
//
// # Architecture
//
// The engine consists of five components, leaves first:
//
// 1. Row stream: adapts a RowSource into keyed rows, enforces ascending key
// order and folds adjacent duplicate keys into a single group.
//
// 2. Aligner: merges the two row streams into one pair per distinct key.
// Without key columns rows are paired by position.
//
// 3. Comparator: compares paired rows by column name with exact text
// equality, and records columns declared by only one source.
//
// 4. Stats: O(1) per-key updates of pass/fail/extra-row counters and the
// per-column mismatch tally.
//
// 5. Assembler: turns the counters and the retained failures into an
// immutable Report.
//
// # Errors
//
// SourceUnavailableError, UnsortedInputError and KeyColumnError abort the
// comparison and no report is produced. Duplicate keys and schema mismatches
// are recorded in the report instead.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    KeyColumns:  []string{"id"},
//	    MaxFailures: reconcile.DefaultMaxFailures,
//	    Logger:      logger,
//	}
//	report, err := reconcile.Compare(ctx, spec, source.NewCSVFile("a.csv", opts), source.NewCSVFile("b.csv", opts))
//
// Any RowSource can be compared: see core/source for file, object storage and
// query-backed implementations.
package reconcile
