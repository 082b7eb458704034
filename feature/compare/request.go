package compare

import (
	"errors"
	"fmt"

	"tablecompare/core/reconcile"
)

// ErrUntrustedSource is returned when a request names a local file or its
// own database while the service only accepts shared sources.
var ErrUntrustedSource = errors.New("local files and database urls are disabled")

// Descriptor names one side of a comparison: either a file (local path or
// s3:// object URL) or a query/table against a database.
type Descriptor struct {
	// Path is a local file path or an s3://bucket/object URL.
	Path string `json:"path,omitempty" example:"s3://exports/orders.csv"`
	// Delimiter overrides the default field separator of the file.
	Delimiter string `json:"delimiter,omitempty" example:";"`
	// NoHeader names the columns col1..colN instead of reading a header line.
	NoHeader bool `json:"no_header,omitempty"`
	// Database is a connection URL (mysql://, postgres://, sqlite://).
	// Empty selects the configured database.
	Database string `json:"database,omitempty" example:"postgres://report@warehouse:5432/sales"`
	// Query is a SQL query producing the rows, ordered by the key.
	Query string `json:"query,omitempty" example:"SELECT * FROM orders ORDER BY id"`
	// Table streams a whole table ordered by the key columns.
	Table string `json:"table,omitempty" example:"orders"`
}

func (d Descriptor) isDatabase() bool {
	return d.Query != "" || d.Table != ""
}

func (d Descriptor) validate() error {
	switch {
	case d.Query != "" && d.Table != "":
		return errors.New("query and table are mutually exclusive")
	case d.isDatabase() && d.Path != "":
		return errors.New("path cannot be combined with a query or table")
	case !d.isDatabase() && d.Path == "":
		return errors.New("no path, query or table given")
	case !d.isDatabase() && d.Database != "":
		return errors.New("database requires a query or table")
	}
	return nil
}

// Request describes one comparison.
type Request struct {
	Left  Descriptor `json:"left"`
	Right Descriptor `json:"right"`

	// KeyColumns identify rows in both sources. Empty pairs rows by position.
	KeyColumns []string `json:"key,omitempty" example:"id"`
	// KeyOrder is text or numeric.
	KeyOrder string `json:"key_order,omitempty" example:"text"`
	// IgnoreColumns are left out of the value comparison.
	IgnoreColumns []string `json:"ignore,omitempty"`
	// MaxFailures bounds the failing records kept; nil uses the default.
	MaxFailures *int `json:"max_failures,omitempty" example:"100"`
	// Prefetch is the read-ahead buffer per source; nil uses the default.
	Prefetch *int `json:"prefetch,omitempty"`
	// Email receives the failing records when there are any.
	Email string `json:"email,omitempty" example:"ops@example.com"`
}

// Validate checks both descriptors.
func (r Request) Validate() error {
	if err := r.Left.validate(); err != nil {
		return fmt.Errorf("left: %w", err)
	}
	if err := r.Right.validate(); err != nil {
		return fmt.Errorf("right: %w", err)
	}
	if r.MaxFailures != nil && *r.MaxFailures < 0 {
		return fmt.Errorf("max_failures must not be negative, got %d", *r.MaxFailures)
	}
	return nil
}

// Result is the outcome of a comparison run.
type Result struct {
	// RunID correlates the run with its log lines.
	RunID string `json:"run_id"`
	// Report is the comparison report.
	Report *reconcile.Report `json:"report"`
	// Notified is set when the failing records were mailed.
	Notified bool `json:"notified"`
	// NotifyError holds the notification failure, if any.
	NotifyError string `json:"notify_error,omitempty"`
}

// InvalidRequestError reports a request that names unusable sources or options.
type InvalidRequestError struct {
	Err error
}

func (e *InvalidRequestError) Error() string { return e.Err.Error() }

func (e *InvalidRequestError) Unwrap() error { return e.Err }
