package reconcile

import (
	"context"
	"fmt"
	"io"
)

// sliceSource is an in-memory RowSource for tests.
type sliceSource struct {
	columns []string
	rows    [][]string
	pos     int
	failAt  int
	closed  bool
}

func (s *sliceSource) Columns() []string { return s.columns }

func (s *sliceSource) Next(ctx context.Context) ([]string, error) {
	if s.failAt > 0 && s.pos+1 == s.failAt {
		return nil, fmt.Errorf("read error at row %d", s.failAt)
	}
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// sliceOpener opens a fresh sliceSource over the same rows on every Open.
type sliceOpener struct {
	name    string
	columns []string
	rows    [][]string
	failAt  int
	openErr error
	last    *sliceSource
}

func newOpener(name string, columns []string, rows ...[]string) *sliceOpener {
	return &sliceOpener{name: name, columns: columns, rows: rows}
}

func (o *sliceOpener) Name() string { return o.name }

func (o *sliceOpener) Open(ctx context.Context) (RowSource, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	o.last = &sliceSource{columns: o.columns, rows: o.rows, failAt: o.failAt}
	return o.last, nil
}

func r(fields ...string) []string { return fields }

func keyedSpec(keys ...string) *Spec {
	return &Spec{KeyColumns: keys, MaxFailures: DefaultMaxFailures}
}
