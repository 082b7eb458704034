package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// progressInterval is how often (in keys) progress is logged at debug level.
const progressInterval = 100000

// State is the lifecycle state of a Pipeline.
type State int

const (
	// StateInitialized is the state of a pipeline that has not run.
	StateInitialized State = iota
	// StateStreaming is the state while rows are being compared.
	StateStreaming
	// StateFinalized is the terminal state, reached on success and on failure.
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateStreaming:
		return "streaming"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Pipeline compares two sources once. It is not safe for concurrent use.
type Pipeline struct {
	spec   Spec
	left   Opener
	right  Opener
	logger *zap.Logger
	state  State
}

// NewPipeline creates a pipeline comparing left against right.
func NewPipeline(spec *Spec, left, right Opener) *Pipeline {
	p := &Pipeline{spec: *spec, left: left, right: right, logger: spec.Logger}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.spec.KeyOrder == "" {
		p.spec.KeyOrder = KeyOrderText
	}
	return p
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Compare runs a single comparison of left against right.
func Compare(ctx context.Context, spec *Spec, left, right Opener) (*Report, error) {
	return NewPipeline(spec, left, right).Run(ctx)
}

// Run opens both sources, streams them through alignment and comparison, and
// returns the finalized report. Both sources are closed before Run returns.
// On error no report is returned and the partial statistics are discarded.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if p.state != StateInitialized {
		return nil, ErrPipelineFinalized
	}
	p.state = StateStreaming
	defer func() { p.state = StateFinalized }()

	if err := p.validate(); err != nil {
		return nil, err
	}

	ls, err := p.open(ctx, SideLeft, p.left)
	if err != nil {
		return nil, err
	}
	defer p.release(SideLeft, p.left, ls)

	rs, err := p.open(ctx, SideRight, p.right)
	if err != nil {
		return nil, err
	}
	defer p.release(SideRight, p.right, rs)

	return p.stream(ctx, ls, rs)
}

func (p *Pipeline) validate() error {
	if p.spec.MaxFailures < 0 {
		return fmt.Errorf("max failures must not be negative, got %d", p.spec.MaxFailures)
	}
	switch p.spec.KeyOrder {
	case KeyOrderText, KeyOrderNumeric:
	default:
		return fmt.Errorf("unknown key order %q", p.spec.KeyOrder)
	}
	return nil
}

func (p *Pipeline) open(ctx context.Context, side Side, o Opener) (RowSource, error) {
	src, err := o.Open(ctx)
	if err != nil {
		return nil, &SourceUnavailableError{Source: o.Name(), Side: side, Err: err}
	}
	return src, nil
}

func (p *Pipeline) release(side Side, o Opener, src RowSource) {
	if err := src.Close(); err != nil {
		p.logger.Warn("Failed to close source",
			zap.String("side", string(side)),
			zap.String("source", o.Name()),
			zap.Error(err),
		)
	}
}

func (p *Pipeline) stream(ctx context.Context, ls, rs RowSource) (*Report, error) {
	leftCols := append([]string(nil), ls.Columns()...)
	rightCols := append([]string(nil), rs.Columns()...)

	leftKey, err := keyIndices(SideLeft, leftCols, p.spec.KeyColumns)
	if err != nil {
		return nil, err
	}
	rightKey, err := keyIndices(SideRight, rightCols, p.spec.KeyColumns)
	if err != nil {
		return nil, err
	}

	// A source without columns (a zero-byte file) is empty. Its schema is
	// taken from the other side so it reports no schema mismatches.
	cmpLeft, cmpRight := leftCols, rightCols
	switch {
	case len(leftCols) == 0:
		cmpLeft = rightCols
	case len(rightCols) == 0:
		cmpRight = leftCols
	}
	cmp := newComparator(cmpLeft, cmpRight, p.spec.KeyColumns, p.spec.IgnoreColumns)
	for _, m := range cmp.mismatches {
		p.logger.Warn("Schema mismatch", zap.String("column", m.Column), zap.String("only_in", string(m.Side)))
	}

	al := newAligner(
		newRowStream(SideLeft, p.left.Name(), ls, leftKey, p.spec.KeyOrder),
		newRowStream(SideRight, p.right.Name(), rs, rightKey, p.spec.KeyOrder),
		p.spec.KeyOrder,
	)
	stats := newStats(len(cmp.columns))
	asm := newAssembler(p.spec.MaxFailures)

	p.logger.Info("Comparing sources",
		zap.String("left", p.left.Name()),
		zap.String("right", p.right.Name()),
		zap.Strings("key_columns", p.spec.KeyColumns),
		zap.Int("compared_columns", len(cmp.columns)),
	)

	for {
		pr, err := al.next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		outcome, diffs := classify(pr, cmp)
		stats.observe(outcome, pr, diffs)
		if outcome != OutcomeMatched {
			asm.retain(outcome, pr, diffs, cmp)
		}

		if stats.keys()%progressInterval == 0 {
			p.logger.Debug("Comparison progress", zap.Object("stats", stats))
		}
	}

	report := asm.finalize(stats, cmp,
		SourceSummary{Name: p.left.Name(), Columns: leftCols},
		SourceSummary{Name: p.right.Name(), Columns: rightCols},
		p.spec.KeyColumns,
	)
	p.logger.Info("Comparison finished", zap.Object("stats", stats), zap.Bool("truncated", report.Truncated))
	return report, nil
}

// classify decides the outcome of an aligned pair.
func classify(p pair, cmp *comparator) (Outcome, []int) {
	switch {
	case (p.left != nil && p.left.count > 1) || (p.right != nil && p.right.count > 1):
		return OutcomeDuplicate, nil
	case p.right == nil:
		return OutcomeLeftOnly, nil
	case p.left == nil:
		return OutcomeRightOnly, nil
	}
	if diffs := cmp.compare(p.left.row.Fields, p.right.row.Fields); len(diffs) > 0 {
		return OutcomeMismatched, diffs
	}
	return OutcomeMatched, nil
}

// keyIndices resolves the key columns against a schema. A schema without
// columns belongs to an empty source and resolves to no key.
func keyIndices(side Side, columns, keyColumns []string) ([]int, error) {
	if len(keyColumns) == 0 || len(columns) == 0 {
		return nil, nil
	}
	pos := indexColumns(columns)
	idx := make([]int, len(keyColumns))
	for i, name := range keyColumns {
		j, ok := pos[name]
		if !ok {
			return nil, &KeyColumnError{Side: side, Column: name}
		}
		idx[i] = j
	}
	return idx, nil
}
