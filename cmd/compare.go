package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tablecompare/core/config"
	"tablecompare/core/logger"
	"tablecompare/core/notify"
	"tablecompare/core/report"
	"tablecompare/core/source"
	"tablecompare/core/storage"
	"tablecompare/feature/compare"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareOptions holds the flags of the compare command.
type compareOptions struct {
	db1, query1, table1 string
	db2, query2, table2 string
	delimiter           string
	delimiter2          string
	noHeader            bool
	keys                []string
	keyOrder            string
	ignore              []string
	maxFailures         int
	prefetch            int
	format              string
	email               string
}

var compareOpts compareOptions

// compareCmd compares two sources and prints the report.
var compareCmd = &cobra.Command{
	Use:   "compare [LEFT] [RIGHT]",
	Short: "Compare two tabular sources",
	Long: `Compare two tabular sources and print a reconciliation report.

A side is either a positional argument (a local file or an s3://bucket/object URL)
or a query/table against a database (--query1/--table1, --query2/--table2).
Database sides use the configured database unless --db1/--db2 give a URL.

Keyed comparisons (--key) expect both sources sorted by the key columns.
Without a key, rows are paired by position.

The exit code is 0 whenever the comparison completes, mismatches included.

Examples:
  # Two files, paired by position
  tablecompare compare old.csv new.csv

  # Keyed, semicolon separated, mail failing records
  tablecompare compare old.csv new.csv --key id --delimiter ';' --email ops@example.com

  # File against a query
  tablecompare compare export.csv --db2 postgres://report@warehouse/sales \
    --query2 'SELECT id, name, total FROM orders ORDER BY id' --key id

  # Object storage, JSON report
  tablecompare compare s3://exports/a.csv s3://exports/b.csv --key id --format json`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareOpts.db1, "db1", "", "Database URL of the left query/table (default: configured database)")
	f.StringVar(&compareOpts.query1, "query1", "", "SQL query producing the left rows")
	f.StringVar(&compareOpts.table1, "table1", "", "Table producing the left rows, ordered by the key")
	f.StringVar(&compareOpts.db2, "db2", "", "Database URL of the right query/table (default: configured database)")
	f.StringVar(&compareOpts.query2, "query2", "", "SQL query producing the right rows")
	f.StringVar(&compareOpts.table2, "table2", "", "Table producing the right rows, ordered by the key")
	f.StringVar(&compareOpts.delimiter, "delimiter", "", "Field delimiter of the files (default from config, comma)")
	f.StringVar(&compareOpts.delimiter2, "delimiter2", "", "Field delimiter of the right file, when it differs")
	f.BoolVar(&compareOpts.noHeader, "no-header", false, "Files have no header line; columns are named col1..colN")
	f.StringSliceVar(&compareOpts.keys, "key", nil, "Key columns (repeatable or comma separated)")
	f.StringVar(&compareOpts.keyOrder, "key-order", "", "Sort order of keyed sources: text or numeric")
	f.StringSliceVar(&compareOpts.ignore, "ignore", nil, "Columns excluded from the comparison")
	f.IntVar(&compareOpts.maxFailures, "max-failures", 0, "Failing records kept in the report (default from config)")
	f.IntVar(&compareOpts.prefetch, "prefetch", 0, "Read-ahead buffer per source, 0 reads inline (default from config)")
	f.StringVar(&compareOpts.format, "format", "", "Report format: text, json or yaml")
	f.StringVar(&compareOpts.email, "email", "", "Mail the failing records to this `ADDRESS`")

	RootCmd.AddCommand(compareCmd)
}

// buildRequest maps the positional arguments and flags onto a request.
// Positional arguments fill the sides without a query or table, left first.
func buildRequest(opts compareOptions, args []string, changed func(string) bool) (compare.Request, error) {
	left := compare.Descriptor{Database: opts.db1, Query: opts.query1, Table: opts.table1}
	right := compare.Descriptor{Database: opts.db2, Query: opts.query2, Table: opts.table2}

	sides := []*compare.Descriptor{&left, &right}
	files := args
	for _, d := range sides {
		if d.Query != "" || d.Table != "" {
			continue
		}
		if len(files) == 0 {
			return compare.Request{}, errors.New("two sources are required: give LEFT and RIGHT files or --query/--table flags")
		}
		d.Path, files = files[0], files[1:]
		d.NoHeader = opts.noHeader
		d.Delimiter = opts.delimiter
	}
	if len(files) > 0 {
		return compare.Request{}, fmt.Errorf("unexpected argument %q: both sides are already given", files[0])
	}
	if opts.delimiter2 != "" && right.Path != "" {
		right.Delimiter = opts.delimiter2
	}

	req := compare.Request{
		Left:          left,
		Right:         right,
		KeyColumns:    opts.keys,
		KeyOrder:      opts.keyOrder,
		IgnoreColumns: opts.ignore,
		Email:         opts.email,
	}
	if changed("max-failures") {
		n := opts.maxFailures
		req.MaxFailures = &n
	}
	if changed("prefetch") {
		n := opts.prefetch
		req.Prefetch = &n
	}
	return req, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(compareOpts, args, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format := compareOpts.format
	if format == "" {
		format = cfg.Compare.Format
	}
	outFormat, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	var client storage.Client
	if storage.IsURL(req.Left.Path) || storage.IsURL(req.Right.Path) {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	svc := compare.NewService(
		cfg.Compare,
		client,
		source.Dedicated(cfg.Database),
		notify.NewMailer(cfg.Mail),
		l,
	).WithTrusted(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), res.Report, outFormat); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if req.Email != "" {
		switch {
		case res.NotifyError != "":
			fmt.Fprintf(cmd.ErrOrStderr(), "\nFailed to send email: %s\n", res.NotifyError)
		case res.Notified:
			fmt.Fprintf(cmd.ErrOrStderr(), "\nEmail sent to %s\n", req.Email)
		default:
			fmt.Fprintf(cmd.ErrOrStderr(), "\nNo failing records, no email sent to %s\n", req.Email)
		}
	}

	l.Debug("Comparison finished", zap.String("run_id", res.RunID))
	return nil
}
