package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"tablecompare/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingSource struct {
	rows   int
	failAt int
	pos    int
	closed bool
}

func (s *countingSource) Columns() []string { return []string{"id"} }

func (s *countingSource) Next(ctx context.Context) ([]string, error) {
	if s.failAt > 0 && s.pos == s.failAt {
		return nil, errors.New("disk read failed")
	}
	if s.pos >= s.rows {
		return nil, io.EOF
	}
	s.pos++
	return []string{fmt.Sprint(s.pos)}, nil
}

func (s *countingSource) Close() error {
	s.closed = true
	return nil
}

type countingOpener struct {
	src *countingSource
}

func (o *countingOpener) Name() string { return "counting" }

func (o *countingOpener) Open(ctx context.Context) (reconcile.RowSource, error) {
	return o.src, nil
}

func TestPrefetch_Disabled(t *testing.T) {
	opener := &countingOpener{src: &countingSource{}}
	assert.Same(t, opener, Prefetch(opener, 0))
}

func TestPrefetch_PreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	inner := &countingSource{rows: 1000}
	opener := Prefetch(&countingOpener{src: inner}, 16)
	assert.Equal(t, "counting", opener.Name())

	src, err := opener.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, src.Columns())

	records := readAll(t, src)
	require.Len(t, records, 1000)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprint(i+1), rec[0])
	}

	// io.EOF is sticky.
	_, err = src.Next(context.Background())
	assert.Equal(t, io.EOF, err)

	require.NoError(t, src.Close())
	assert.True(t, inner.closed)
}

func TestPrefetch_PropagatesError(t *testing.T) {
	defer goleak.VerifyNone(t)

	src, err := Prefetch(&countingOpener{src: &countingSource{rows: 10, failAt: 3}}, 4).Open(context.Background())
	require.NoError(t, err)
	defer src.Close()

	for i := 0; i < 3; i++ {
		_, err := src.Next(context.Background())
		require.NoError(t, err)
	}
	_, err = src.Next(context.Background())
	assert.EqualError(t, err, "disk read failed")
	_, err = src.Next(context.Background())
	assert.EqualError(t, err, "disk read failed")
}

func TestPrefetch_CloseEarly(t *testing.T) {
	defer goleak.VerifyNone(t)

	inner := &countingSource{rows: 100000}
	src, err := Prefetch(&countingOpener{src: inner}, 2).Open(context.Background())
	require.NoError(t, err)

	_, err = src.Next(context.Background())
	require.NoError(t, err)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.True(t, inner.closed)
}

func TestPrefetch_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	src, err := Prefetch(&countingOpener{src: &countingSource{rows: 100000}}, 1).Open(ctx)
	require.NoError(t, err)
	defer src.Close()

	cancel()
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
