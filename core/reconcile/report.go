package reconcile

// assembler retains failing records up to a limit and builds the final report.
type assembler struct {
	limit     int
	failures  []Failure
	truncated bool
}

func newAssembler(limit int) *assembler {
	return &assembler{limit: limit}
}

// retain keeps the failing record described by p unless the limit is reached.
func (a *assembler) retain(outcome Outcome, p pair, diffs []int, cmp *comparator) {
	if len(a.failures) >= a.limit {
		a.truncated = true
		return
	}

	f := Failure{Outcome: outcome, Key: p.key.String()}
	if p.left != nil {
		f.LeftOrdinal = p.left.row.Ordinal
	}
	if p.right != nil {
		f.RightOrdinal = p.right.row.Ordinal
	}

	switch outcome {
	case OutcomeMismatched:
		f.Diffs = cmp.fieldDiffs(p.left.row.Fields, p.right.row.Fields, diffs)
	case OutcomeLeftOnly:
		f.Values = p.left.row.Fields
	case OutcomeRightOnly:
		f.Values = p.right.row.Fields
	case OutcomeDuplicate:
		if p.left != nil {
			f.LeftCount = p.left.count
		}
		if p.right != nil {
			f.RightCount = p.right.count
		}
	}

	a.failures = append(a.failures, f)
}

// finalize copies the accumulated state into an immutable report.
func (a *assembler) finalize(stats *Stats, cmp *comparator, left, right SourceSummary, keyColumns []string) *Report {
	left.Rows = stats.leftRows
	right.Rows = stats.rightRows

	columns := make([]ColumnStat, len(cmp.columns))
	for i, name := range cmp.columns {
		columns[i] = ColumnStat{Name: name, Mismatches: stats.columns[i]}
	}

	report := &Report{
		Left:            left,
		Right:           right,
		Passed:          stats.passed,
		Failed:          stats.failed,
		LeftOnly:        stats.leftOnly,
		RightOnly:       stats.rightOnly,
		Duplicates:      stats.duplicates,
		CellDifferences: stats.cells,
		Columns:         columns,
		Truncated:       a.truncated,
	}
	if len(keyColumns) > 0 {
		report.KeyColumns = append([]string(nil), keyColumns...)
	}
	if len(cmp.mismatches) > 0 {
		report.SchemaMismatches = append([]SchemaMismatchError(nil), cmp.mismatches...)
	}
	if len(a.failures) > 0 {
		report.Failures = append([]Failure(nil), a.failures...)
	}
	return report
}
