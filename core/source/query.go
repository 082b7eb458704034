package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"tablecompare/core/database"
	"tablecompare/core/reconcile"

	"gorm.io/gorm"
)

// ConnectFunc acquires a database connection for one source. The returned
// release function is called when the source is closed.
type ConnectFunc func(ctx context.Context) (db *gorm.DB, release func() error, err error)

// Shared returns a ConnectFunc reusing db. Closing the source leaves db open.
func Shared(db *gorm.DB) ConnectFunc {
	return func(ctx context.Context) (*gorm.DB, func() error, error) {
		return db, func() error { return nil }, nil
	}
}

// Dedicated returns a ConnectFunc opening a new connection per source and
// closing it with the source.
func Dedicated(cfg database.Config) ConnectFunc {
	return func(ctx context.Context) (*gorm.DB, func() error, error) {
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, func() error { return database.Close(db) }, nil
	}
}

// Query streams the result of a SQL query. Rows are scanned as text; NULL
// becomes the empty string. Without key columns the rows come in the order
// the query gives them.
type Query struct {
	connect    ConnectFunc
	query      string
	args       []any
	keyColumns []string
	order      reconcile.KeyOrder
}

// NewQuery creates an opener executing query with args.
func NewQuery(connect ConnectFunc, query string, args ...any) *Query {
	return &Query{connect: connect, query: query, args: args}
}

// SortedBy makes the database sort the query result by keyColumns under
// text order. Numeric order keeps the order of the query itself, which then
// has to sort numeric keys by value.
func (q *Query) SortedBy(order reconcile.KeyOrder, keyColumns ...string) *Query {
	q.order = order
	q.keyColumns = keyColumns
	return q
}

// statement returns the SQL to run on db.
func (q *Query) statement(db *gorm.DB) string {
	if len(q.keyColumns) == 0 || q.order == reconcile.KeyOrderNumeric {
		return q.query
	}
	inner := strings.TrimRight(strings.TrimSpace(q.query), "; \t\n")
	return fmt.Sprintf("SELECT * FROM (%s) AS keyed ORDER BY %s", inner, keyOrderBy(db, q.keyColumns, q.order))
}

// Name returns the query text.
func (q *Query) Name() string {
	return q.query
}

// Open executes the query.
func (q *Query) Open(ctx context.Context) (reconcile.RowSource, error) {
	db, release, err := q.connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.WithContext(ctx).Raw(q.statement(db), q.args...).Rows()
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return newRowsSource(rows, release)
}

// Table streams a whole table ordered by its key columns.
type Table struct {
	connect    ConnectFunc
	table      string
	keyColumns []string
	order      reconcile.KeyOrder
}

// NewTable creates an opener for table, ordered by keyColumns in text order.
func NewTable(connect ConnectFunc, table string, keyColumns []string) *Table {
	return &Table{connect: connect, table: table, keyColumns: keyColumns, order: reconcile.KeyOrderText}
}

// WithKeyOrder sets the order the rows are sorted in. Numeric order requires
// numeric key columns.
func (t *Table) WithKeyOrder(order reconcile.KeyOrder) *Table {
	if order != "" {
		t.order = order
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string {
	return "table:" + t.table
}

// Open validates the key columns against the table schema and runs the
// ordered select.
func (t *Table) Open(ctx context.Context) (reconcile.RowSource, error) {
	db, release, err := t.connect(ctx)
	if err != nil {
		return nil, err
	}

	columns, err := database.GetTableColumns(db.WithContext(ctx), t.table)
	if err != nil {
		_ = release()
		return nil, err
	}
	if len(columns) == 0 {
		_ = release()
		return nil, fmt.Errorf("table %s not found or has no columns", t.table)
	}

	types := make(map[string]string, len(columns))
	for _, c := range columns {
		types[c.Field] = c.Type
	}
	for _, k := range t.keyColumns {
		typ, ok := types[k]
		if !ok {
			_ = release()
			return nil, fmt.Errorf("key column %s not found in table %s", k, t.table)
		}
		if t.order == reconcile.KeyOrderNumeric && !isNumericType(typ) {
			_ = release()
			return nil, fmt.Errorf("key column %s of table %s has type %s, numeric key order needs a numeric column", k, t.table, typ)
		}
	}

	tx := db.WithContext(ctx).Table(t.table)
	if len(t.keyColumns) > 0 {
		tx = tx.Order(keyOrderBy(db, t.keyColumns, t.order))
	}
	rows, err := tx.Rows()
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("failed to select table %s: %w", t.table, err)
	}
	return newRowsSource(rows, release)
}

// rowsSource adapts *sql.Rows to reconcile.RowSource.
type rowsSource struct {
	rows    *sql.Rows
	release func() error
	columns []string
	values  []sql.NullString
	dest    []any
}

func newRowsSource(rows *sql.Rows, release func() error) (*rowsSource, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		_ = release()
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	s := &rowsSource{
		rows:    rows,
		release: release,
		columns: columns,
		values:  make([]sql.NullString, len(columns)),
		dest:    make([]any, len(columns)),
	}
	for i := range s.values {
		s.dest[i] = &s.values[i]
	}
	return s, nil
}

func (s *rowsSource) Columns() []string {
	return s.columns
}

func (s *rowsSource) Next(ctx context.Context) ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	if err := s.rows.Scan(s.dest...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	record := make([]string, len(s.values))
	for i, v := range s.values {
		record[i] = v.String
	}
	return record, nil
}

func (s *rowsSource) Close() error {
	return errors.Join(s.rows.Close(), s.release())
}
