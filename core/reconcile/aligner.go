package reconcile

import (
	"context"
	"errors"
	"io"
)

// pair is one aligned key. At least one side is set.
type pair struct {
	key   Key
	left  *group
	right *group
}

// aligner merges two row streams into pairs, one per distinct key.
//
// Keyed streams are merged in a single forward pass, which requires both to be
// sorted by key. Streams without key columns are paired by position.
type aligner struct {
	left   *rowStream
	right  *rowStream
	order  KeyOrder
	lg     *group
	rg     *group
	primed bool
}

func newAligner(left, right *rowStream, order KeyOrder) *aligner {
	return &aligner{left: left, right: right, order: order}
}

// fetch returns the next group of s, or nil once s is exhausted.
func fetch(ctx context.Context, s *rowStream) (*group, error) {
	g, err := s.nextGroup(ctx)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return g, err
}

// next returns the next pair, or io.EOF when both streams are exhausted.
func (a *aligner) next(ctx context.Context) (pair, error) {
	var err error
	if !a.primed {
		if a.lg, err = fetch(ctx, a.left); err != nil {
			return pair{}, err
		}
		if a.rg, err = fetch(ctx, a.right); err != nil {
			return pair{}, err
		}
		a.primed = true
	}

	if a.lg == nil && a.rg == nil {
		return pair{}, io.EOF
	}

	takeLeft, takeRight := a.lg != nil, a.rg != nil
	if takeLeft && takeRight && a.left.keyed() {
		switch c := compareKeys(a.order, a.lg.row.Key, a.rg.row.Key); {
		case c < 0:
			takeRight = false
		case c > 0:
			takeLeft = false
		}
	}

	var p pair
	if takeLeft {
		p.left, p.key = a.lg, a.lg.row.Key
		if a.lg, err = fetch(ctx, a.left); err != nil {
			return pair{}, err
		}
	}
	if takeRight {
		p.right, p.key = a.rg, a.rg.row.Key
		if a.rg, err = fetch(ctx, a.right); err != nil {
			return pair{}, err
		}
	}
	return p, nil
}
