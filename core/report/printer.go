package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tablecompare/core/reconcile"

	"gopkg.in/yaml.v3"
)

// Format is an output format for a comparison report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. An empty name selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use text, json or yaml)", s)
	}
}

// Write renders rep to w in the given format.
func Write(w io.Writer, rep *reconcile.Report, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// printer accumulates the first write error so the text layout reads top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// WriteText renders the human readable report.
func WriteText(w io.Writer, rep *reconcile.Report) error {
	p := &printer{w: w}

	p.line("Comparison Report")
	p.line("=================")
	p.line("Left:  %s", rep.Left.Name)
	p.line("Right: %s", rep.Right.Name)
	if len(rep.KeyColumns) > 0 {
		p.line("Key:   %s", strings.Join(rep.KeyColumns, ", "))
	} else {
		p.line("Key:   (row position)")
	}
	p.line("")
	p.line("Rows in left:       %d", rep.Left.Rows)
	p.line("Rows in right:      %d", rep.Right.Rows)
	p.line("Passed:             %d", rep.Passed)
	p.line("Failed:             %d", rep.Failed)
	p.line("Left only:          %d", rep.LeftOnly)
	p.line("Right only:         %d", rep.RightOnly)
	p.line("Duplicate keys:     %d", rep.Duplicates)
	p.line("Cell differences:   %d", rep.CellDifferences)

	if stats := rep.ColumnStats(); len(stats) > 0 {
		p.line("Column differences:")
		for _, c := range rep.Columns {
			if c.Mismatches > 0 {
				p.line("  %s: %d", c.Name, c.Mismatches)
			}
		}
	}

	if len(rep.SchemaMismatches) > 0 {
		p.line("Schema mismatches:")
		for _, m := range rep.SchemaMismatches {
			p.line("  %s: only in %s", m.Column, m.Side)
		}
	}

	if len(rep.Failures) > 0 {
		p.line("")
		p.line("Failing records (%d of %d):", len(rep.Failures), rep.FailureCount())
		for _, f := range rep.Failures {
			p.line("  %s", describe(f))
		}
	}
	if rep.Truncated {
		p.line("  ... %d more not shown", rep.FailureCount()-int64(len(rep.Failures)))
	}

	return p.err
}

// describe renders one failing record on a single line.
func describe(f reconcile.Failure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] key=%s", f.Outcome, f.Key)

	switch f.Outcome {
	case reconcile.OutcomeMismatched:
		fmt.Fprintf(&b, " rows=%d/%d", f.LeftOrdinal, f.RightOrdinal)
		for _, d := range f.Diffs {
			fmt.Fprintf(&b, " %s: %q != %q;", d.Column, d.Left, d.Right)
		}
		return strings.TrimSuffix(b.String(), ";")
	case reconcile.OutcomeLeftOnly:
		fmt.Fprintf(&b, " row=%d", f.LeftOrdinal)
	case reconcile.OutcomeRightOnly:
		fmt.Fprintf(&b, " row=%d", f.RightOrdinal)
	case reconcile.OutcomeDuplicate:
		fmt.Fprintf(&b, " left=%d right=%d", f.LeftCount, f.RightCount)
		return b.String()
	}
	if len(f.Values) > 0 {
		fmt.Fprintf(&b, " values=%s", strings.Join(f.Values, ","))
	}
	return b.String()
}
