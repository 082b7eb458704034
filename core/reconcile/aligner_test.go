package reconcile

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareKeys(t *testing.T) {
	tests := []struct {
		name  string
		order KeyOrder
		a, b  Key
		want  int
	}{
		{"Text equal", KeyOrderText, Key{"a"}, Key{"a"}, 0},
		{"Text less", KeyOrderText, Key{"10"}, Key{"9"}, -1},
		{"Numeric less", KeyOrderNumeric, Key{"9"}, Key{"10"}, -1},
		{"Numeric decimals", KeyOrderNumeric, Key{"1.5"}, Key{"1.25"}, 1},
		{"Numeric before text", KeyOrderNumeric, Key{"99"}, Key{"abc"}, -1},
		{"Numeric same value different text", KeyOrderNumeric, Key{"1"}, Key{"1.0"}, -1},
		{"NaN is text", KeyOrderNumeric, Key{"NaN"}, Key{"10"}, 1},
		{"NaN after numbers", KeyOrderNumeric, Key{"5"}, Key{"NaN"}, -1},
		{"NaN against text", KeyOrderNumeric, Key{"NaN"}, Key{"abc"}, -1},
		{"Infinity is a number", KeyOrderNumeric, Key{"Inf"}, Key{"abc"}, -1},
		{"Infinity after finite", KeyOrderNumeric, Key{"1e300"}, Key{"+Inf"}, -1},
		{"Composite second component", KeyOrderText, Key{"a", "2"}, Key{"a", "1"}, 1},
		{"Shorter first", KeyOrderText, Key{"a"}, Key{"a", "1"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareKeys(tt.order, tt.a, tt.b))
		})
	}
}

func drain(t *testing.T, al *aligner) []pair {
	t.Helper()
	var pairs []pair
	for {
		p, err := al.next(context.Background())
		if errors.Is(err, io.EOF) {
			return pairs
		}
		require.NoError(t, err)
		pairs = append(pairs, p)
	}
}

func TestAligner_KeyedMerge(t *testing.T) {
	left := &sliceSource{columns: []string{"id"}, rows: [][]string{r("a"), r("b"), r("b"), r("d")}}
	right := &sliceSource{columns: []string{"id"}, rows: [][]string{r("b"), r("c"), r("d"), r("d"), r("d")}}

	al := newAligner(
		newRowStream(SideLeft, "l", left, []int{0}, KeyOrderText),
		newRowStream(SideRight, "r", right, []int{0}, KeyOrderText),
		KeyOrderText,
	)
	pairs := drain(t, al)
	require.Len(t, pairs, 4)

	assert.Equal(t, Key{"a"}, pairs[0].key)
	assert.NotNil(t, pairs[0].left)
	assert.Nil(t, pairs[0].right)

	assert.Equal(t, Key{"b"}, pairs[1].key)
	assert.Equal(t, 2, pairs[1].left.count)
	assert.Equal(t, 1, pairs[1].right.count)
	assert.Equal(t, int64(2), pairs[1].left.row.Ordinal)

	assert.Equal(t, Key{"c"}, pairs[2].key)
	assert.Nil(t, pairs[2].left)

	assert.Equal(t, Key{"d"}, pairs[3].key)
	assert.Equal(t, 3, pairs[3].right.count)
	assert.Equal(t, int64(3), pairs[3].right.row.Ordinal)
}

func TestAligner_UnsortedRight(t *testing.T) {
	left := &sliceSource{columns: []string{"id"}, rows: [][]string{r("a"), r("b"), r("c")}}
	right := &sliceSource{columns: []string{"id"}, rows: [][]string{r("a"), r("c"), r("b")}}

	al := newAligner(
		newRowStream(SideLeft, "l", left, []int{0}, KeyOrderText),
		newRowStream(SideRight, "r", right, []int{0}, KeyOrderText),
		KeyOrderText,
	)

	var err error
	for i := 0; err == nil && i < 10; i++ {
		_, err = al.next(context.Background())
	}
	var unsorted *UnsortedInputError
	require.ErrorAs(t, err, &unsorted)
	assert.Equal(t, SideRight, unsorted.Side)
	assert.Equal(t, int64(3), unsorted.Ordinal)
}

func TestComparator_DuplicateColumnNames(t *testing.T) {
	c := newComparator([]string{"id", "a", "a"}, []string{"a", "id", "b"}, []string{"id"}, nil)

	assert.Equal(t, []string{"a"}, c.columns)
	assert.Equal(t, []int{1}, c.leftIdx)
	assert.Equal(t, []int{0}, c.rightIdx)
	assert.Equal(t, []SchemaMismatchError{{Column: "b", Side: SideRight}}, c.mismatches)

	assert.Empty(t, c.compare([]string{"1", "x", "y"}, []string{"x", "1", "z"}))
	assert.Equal(t, []int{0}, c.compare([]string{"1", "x", "x"}, []string{"y", "1", "z"}))
}
