package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"tablecompare/core/reconcile"
)

// utf8BOM is the byte order mark Windows tools prepend to UTF-8 files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls how delimited text is parsed.
type CSVOptions struct {
	// Delimiter is the field separator. Zero means comma.
	Delimiter rune

	// NoHeader treats the first line as data. Columns are then named
	// col1..colN after the width of the first record.
	NoHeader bool

	// LazyQuotes allows quotes in unquoted fields.
	LazyQuotes bool

	// TrimSpace trims leading and trailing white space from every field.
	TrimSpace bool
}

// ParseDelimiter converts a delimiter flag value into a rune.
// It accepts a single character, an escape ("\t") or a name ("tab", "comma",
// "semicolon", "pipe").
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "comma":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	if r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}

// CSVFile opens a delimited text file on the local file system.
type CSVFile struct {
	path string
	opts CSVOptions
}

// NewCSVFile creates an opener for the file at path.
func NewCSVFile(path string, opts CSVOptions) *CSVFile {
	return &CSVFile{path: path, opts: opts}
}

// Name returns the file path.
func (f *CSVFile) Name() string {
	return f.path
}

// Open opens the file and reads its header.
func (f *CSVFile) Open(ctx context.Context) (reconcile.RowSource, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	src, err := NewCSVSource(file, f.opts)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return src, nil
}

// CSVSource streams records from delimited text.
type CSVSource struct {
	reader  *csv.Reader
	closer  io.Closer
	columns []string
	pending []string
	trim    bool
}

// NewCSVSource reads the header from rc and returns a source streaming the
// remaining records. The source takes ownership of rc.
func NewCSVSource(rc io.ReadCloser, opts CSVOptions) (*CSVSource, error) {
	br := bufio.NewReader(rc)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	// Width is normalised by the engine.
	reader.FieldsPerRecord = -1

	s := &CSVSource{reader: reader, closer: rc, trim: opts.TrimSpace}

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// An empty file has no columns and no rows.
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	first = s.clean(first)

	if opts.NoHeader {
		s.columns = make([]string, len(first))
		for i := range first {
			s.columns[i] = fmt.Sprintf("col%d", i+1)
		}
		s.pending = first
		return s, nil
	}

	s.columns = first
	return s, nil
}

// Columns returns the header names.
func (s *CSVSource) Columns() []string {
	return s.columns
}

// Next returns the next record or io.EOF.
func (s *CSVSource) Next(ctx context.Context) ([]string, error) {
	if s.pending != nil {
		rec := s.pending
		s.pending = nil
		return rec, nil
	}
	rec, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	return s.clean(rec), nil
}

// Close closes the underlying reader.
func (s *CSVSource) Close() error {
	return s.closer.Close()
}

func (s *CSVSource) clean(rec []string) []string {
	if !s.trim {
		return rec
	}
	for i, v := range rec {
		rec[i] = strings.TrimSpace(v)
	}
	return rec
}
