package source

import (
	"context"
	"sync"

	"tablecompare/core/reconcile"

	"golang.org/x/sync/errgroup"
)

// fetched is one record handed from the reader goroutine to the consumer.
type fetched struct {
	record []string
	err    error
}

// Prefetch wraps an opener so that its source is read ahead by a dedicated
// goroutine, overlapping I/O latency with comparison. Records keep their
// order. A buffer of zero or less returns the opener unchanged.
func Prefetch(o reconcile.Opener, buffer int) reconcile.Opener {
	if buffer <= 0 {
		return o
	}
	return &prefetchOpener{Opener: o, buffer: buffer}
}

type prefetchOpener struct {
	reconcile.Opener
	buffer int
}

func (p *prefetchOpener) Open(ctx context.Context) (reconcile.RowSource, error) {
	src, err := p.Opener.Open(ctx)
	if err != nil {
		return nil, err
	}
	return newPrefetchSource(ctx, src, p.buffer), nil
}

// prefetchSource reads src on a background goroutine.
type prefetchSource struct {
	src    reconcile.RowSource
	out    chan fetched
	cancel context.CancelFunc
	group  *errgroup.Group
	once   sync.Once
	err    error
}

func newPrefetchSource(ctx context.Context, src reconcile.RowSource, buffer int) *prefetchSource {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)

	s := &prefetchSource{
		src:    src,
		out:    make(chan fetched, buffer),
		cancel: cancel,
		group:  group,
	}

	// The reader stops after handing over the first error (io.EOF included),
	// or when the source is closed.
	group.Go(func() error {
		for {
			record, err := src.Next(gctx)
			select {
			case s.out <- fetched{record: record, err: err}:
			case <-gctx.Done():
				return nil
			}
			if err != nil {
				return nil
			}
		}
	})
	return s
}

func (s *prefetchSource) Columns() []string {
	return s.src.Columns()
}

func (s *prefetchSource) Next(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case f := <-s.out:
		if f.err != nil {
			s.err = f.err
		}
		return f.record, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the reader goroutine, waits for it and closes the source.
func (s *prefetchSource) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		_ = s.group.Wait()
		err = s.src.Close()
	})
	return err
}
