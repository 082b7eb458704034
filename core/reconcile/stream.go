package reconcile

import (
	"context"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// contextCheckInterval is how often (in rows) a stream checks for cancellation.
const contextCheckInterval = 100

// group is the run of adjacent rows sharing one key. Only the first row is kept.
type group struct {
	row   *Row
	count int
}

// rowStream adapts a RowSource into keyed rows and key groups.
// It holds at most one row of lookahead.
type rowStream struct {
	side    Side
	name    string
	src     RowSource
	width   int
	keyIdx  []int
	order   KeyOrder
	ordinal int64
	pending *Row
	eof     bool
}

func newRowStream(side Side, name string, src RowSource, keyIdx []int, order KeyOrder) *rowStream {
	return &rowStream{
		side:   side,
		name:   name,
		src:    src,
		width:  len(src.Columns()),
		keyIdx: keyIdx,
		order:  order,
		// Records of a source without columns have nowhere to go.
		eof:    len(src.Columns()) == 0,
	}
}

func (s *rowStream) keyed() bool {
	return len(s.keyIdx) > 0
}

// read returns the next row of the source or io.EOF.
func (s *rowStream) read(ctx context.Context) (*Row, error) {
	if s.eof {
		return nil, io.EOF
	}
	if s.ordinal%contextCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	record, err := s.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		s.eof = true
		return nil, io.EOF
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &SourceUnavailableError{Source: s.name, Side: s.side, Err: err}
	}
	s.ordinal++

	// Short records are padded with empty values, long ones cut to the header width.
	fields := make([]string, s.width)
	copy(fields, record)

	return &Row{Key: s.keyOf(fields), Fields: fields, Ordinal: s.ordinal}, nil
}

func (s *rowStream) keyOf(fields []string) Key {
	if !s.keyed() {
		return Key{strconv.FormatInt(s.ordinal, 10)}
	}
	key := make(Key, len(s.keyIdx))
	for i, idx := range s.keyIdx {
		key[i] = fields[idx]
	}
	return key
}

// nextGroup returns the next key group, or io.EOF once the source is exhausted.
// In keyed mode it enforces ascending key order and folds adjacent equal keys
// into one group.
func (s *rowStream) nextGroup(ctx context.Context) (*group, error) {
	first := s.pending
	s.pending = nil
	if first == nil {
		row, err := s.read(ctx)
		if err != nil {
			return nil, err
		}
		first = row
	}

	g := &group{row: first, count: 1}
	if !s.keyed() {
		return g, nil
	}

	for {
		row, err := s.read(ctx)
		if errors.Is(err, io.EOF) {
			return g, nil
		}
		if err != nil {
			return nil, err
		}

		switch c := compareKeys(s.order, row.Key, first.Key); {
		case c == 0:
			g.count++
		case c < 0:
			return nil, &UnsortedInputError{
				Side:     s.side,
				Ordinal:  row.Ordinal,
				Key:      row.Key,
				Previous: first.Key,
			}
		default:
			s.pending = row
			return g, nil
		}
	}
}

// compareKeys orders two keys component by component.
func compareKeys(order KeyOrder, a, b Key) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var c int
		if order == KeyOrderNumeric {
			c = compareNumeric(a[i], b[i])
		} else {
			c = strings.Compare(a[i], b[i])
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// compareNumeric orders numbers before text and numbers by value. Equal values
// with different spellings ("1" and "1.0") are ordered by text so they never
// count as the same key.
func compareNumeric(a, b string) int {
	fa, okA := parseNumber(a)
	fb, okB := parseNumber(b)
	switch {
	case okA && okB:
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// parseNumber parses s as a number. NaN has no place in a total order and
// counts as text.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
