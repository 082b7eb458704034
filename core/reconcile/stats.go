package reconcile

import "go.uber.org/zap/zapcore"

// Stats is the running aggregate of a comparison. Each update is O(1) in the
// number of rows and the whole aggregate is O(columns) in size.
// It is owned by the pipeline and never shared.
type Stats struct {
	columns []int64

	passed     int64
	failed     int64
	leftOnly   int64
	rightOnly  int64
	duplicates int64
	cells      int64
	leftRows   int64
	rightRows  int64
}

func newStats(columns int) *Stats {
	return &Stats{columns: make([]int64, columns)}
}

// observe records one classified key. diffs holds the differing column
// indices of a mismatched pair.
func (s *Stats) observe(outcome Outcome, p pair, diffs []int) {
	if p.left != nil {
		s.leftRows += int64(p.left.count)
	}
	if p.right != nil {
		s.rightRows += int64(p.right.count)
	}

	switch outcome {
	case OutcomeMatched:
		s.passed++
	case OutcomeMismatched:
		s.failed++
		for _, i := range diffs {
			s.columns[i]++
		}
		s.cells += int64(len(diffs))
	case OutcomeLeftOnly:
		s.leftOnly++
	case OutcomeRightOnly:
		s.rightOnly++
	case OutcomeDuplicate:
		s.duplicates++
	}
}

// keys returns the number of keys observed so far.
func (s *Stats) keys() int64 {
	return s.passed + s.failed + s.leftOnly + s.rightOnly + s.duplicates
}

// MarshalLogObject implements zapcore.ObjectMarshaler for progress logging.
func (s *Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("keys", s.keys())
	enc.AddInt64("passed", s.passed)
	enc.AddInt64("failed", s.failed)
	enc.AddInt64("left_only", s.leftOnly)
	enc.AddInt64("right_only", s.rightOnly)
	enc.AddInt64("duplicates", s.duplicates)
	enc.AddInt64("left_rows", s.leftRows)
	enc.AddInt64("right_rows", s.rightRows)
	return nil
}
