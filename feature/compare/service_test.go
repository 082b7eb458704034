package compare

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tablecompare/core/database"
	"tablecompare/core/reconcile"
	"tablecompare/core/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, recipient string, rep *reconcile.Report) (bool, error) {
	args := m.Called(ctx, recipient, rep)
	return args.Bool(0), args.Error(1)
}

func defaultConfig() Config {
	return Config{Delimiter: ",", KeyOrder: "text", MaxFailures: 1000, Format: "text"}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fixtures(t *testing.T) (left, right string) {
	dir := t.TempDir()
	left = writeCSV(t, dir, "left.csv", "id,name,total\n1,alice,10\n2,bob,5\n3,carol,7\n")
	right = writeCSV(t, dir, "right.csv", "id,name,total\n1,alice,10\n2,rob,5\n4,dave,1\n")
	return left, right
}

func TestService_Run(t *testing.T) {
	left, right := fixtures(t)
	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, "ops@example.com", mock.AnythingOfType("*reconcile.Report")).Return(true, nil)

	svc := NewService(defaultConfig(), nil, nil, notifier, zap.NewNop()).WithTrusted(true)
	res, err := svc.Run(context.Background(), Request{
		Left:       Descriptor{Path: left},
		Right:      Descriptor{Path: right},
		KeyColumns: []string{"id"},
		Email:      "ops@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.True(t, res.Notified)
	assert.Empty(t, res.NotifyError)

	rep := res.Report
	assert.Equal(t, int64(1), rep.Passed)
	assert.Equal(t, int64(1), rep.Failed)
	assert.Equal(t, int64(1), rep.LeftOnly)
	assert.Equal(t, int64(1), rep.RightOnly)
	assert.Equal(t, map[string]int64{"name": 1}, rep.ColumnStats())
	notifier.AssertExpectations(t)
}

func TestService_RunNotifyFailure(t *testing.T) {
	left, right := fixtures(t)
	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, "ops@example.com", mock.Anything).Return(false, errors.New("connection refused"))

	svc := NewService(defaultConfig(), nil, nil, notifier, zap.NewNop()).WithTrusted(true)
	res, err := svc.Run(context.Background(), Request{
		Left:       Descriptor{Path: left},
		Right:      Descriptor{Path: right},
		KeyColumns: []string{"id"},
		Email:      "ops@example.com",
	})
	require.NoError(t, err)
	assert.False(t, res.Notified)
	assert.Equal(t, "connection refused", res.NotifyError)
	assert.Equal(t, int64(4), res.Report.TotalKeys())
}

func TestService_RunWithoutNotifier(t *testing.T) {
	left, right := fixtures(t)

	svc := NewService(defaultConfig(), nil, nil, nil, nil).WithTrusted(true)
	res, err := svc.Run(context.Background(), Request{
		Left:  Descriptor{Path: left},
		Right: Descriptor{Path: right},
		Email: "ops@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "notifications are not configured", res.NotifyError)
	// Paired by position: rows 2 and 3 differ.
	assert.Equal(t, int64(2), res.Report.Failed)
}

func TestService_RunPrefetch(t *testing.T) {
	left, right := fixtures(t)
	prefetch := 8

	svc := NewService(defaultConfig(), nil, nil, nil, zap.NewNop()).WithTrusted(true)
	res, err := svc.Run(context.Background(), Request{
		Left:       Descriptor{Path: left},
		Right:      Descriptor{Path: right},
		KeyColumns: []string{"id"},
		Prefetch:   &prefetch,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Report.Passed)
	assert.False(t, res.Notified)
}

func TestService_RunDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "orders.db")
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: dbPath})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE orders (id TEXT, name TEXT, total TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO orders VALUES ('1','alice','10'), ('2','bob','5'), ('3','carol','7')").Error)
	require.NoError(t, database.Close(db))

	left := writeCSV(t, dir, "left.csv", "id;name;total\n1;alice;10\n2;bob;5\n3;carol;7\n")

	svc := NewService(defaultConfig(), nil, source.Dedicated(database.Config{Driver: database.DriverSQLite, Name: dbPath}), nil, zap.NewNop()).
		WithTrusted(true)

	t.Run("Configured database query", func(t *testing.T) {
		res, err := svc.Run(context.Background(), Request{
			Left:       Descriptor{Path: left, Delimiter: "semicolon"},
			Right:      Descriptor{Query: "SELECT id, name, total FROM orders ORDER BY id"},
			KeyColumns: []string{"id"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Report.Passed)
		assert.False(t, res.Report.HasFailures())
	})

	t.Run("Table from database url", func(t *testing.T) {
		res, err := svc.Run(context.Background(), Request{
			Left:       Descriptor{Path: left, Delimiter: ";"},
			Right:      Descriptor{Database: "sqlite://" + dbPath, Table: "orders"},
			KeyColumns: []string{"id"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Report.Passed)
		assert.Equal(t, "table:orders", res.Report.Right.Name)
	})
}

func TestService_RunIntegerKeys(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "orders.db")
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: dbPath})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE orders (id INTEGER, total INTEGER)").Error)
	for i := 1; i <= 12; i++ {
		require.NoError(t, db.Exec("INSERT INTO orders VALUES (?, ?)", i, i*100).Error)
	}
	require.NoError(t, database.Close(db))

	svc := NewService(defaultConfig(), nil, source.Dedicated(database.Config{Driver: database.DriverSQLite, Name: dbPath}), nil, zap.NewNop())

	tests := []struct {
		name string
		side Descriptor
	}{
		{"Table", Descriptor{Table: "orders"}},
		{"Query ordered by id", Descriptor{Query: "SELECT * FROM orders ORDER BY id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Run(context.Background(), Request{
				Left:       tt.side,
				Right:      Descriptor{Table: "orders"},
				KeyColumns: []string{"id"},
			})
			require.NoError(t, err)
			assert.Equal(t, int64(12), res.Report.Passed)
			assert.False(t, res.Report.HasFailures())
		})
	}

	t.Run("Numeric key order", func(t *testing.T) {
		res, err := svc.Run(context.Background(), Request{
			Left:       Descriptor{Table: "orders"},
			Right:      Descriptor{Table: "orders"},
			KeyColumns: []string{"id"},
			KeyOrder:   "numeric",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(12), res.Report.Passed)
	})
}

func TestService_RunErrors(t *testing.T) {
	left, right := fixtures(t)
	negative := -1

	tests := []struct {
		name    string
		trusted bool
		req     Request
		check   func(t *testing.T, err error)
	}{
		{
			name:    "Untrusted file",
			trusted: false,
			req:     Request{Left: Descriptor{Path: left}, Right: Descriptor{Path: right}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUntrustedSource)
			},
		},
		{
			name:    "Untrusted database url",
			trusted: false,
			req:     Request{Left: Descriptor{Database: "sqlite:///tmp/x.db", Query: "SELECT 1"}, Right: Descriptor{Query: "SELECT 1"}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUntrustedSource)
			},
		},
		{
			name:    "Missing side",
			trusted: true,
			req:     Request{Left: Descriptor{Path: left}},
			check: func(t *testing.T, err error) {
				var invalid *InvalidRequestError
				assert.ErrorAs(t, err, &invalid)
				assert.EqualError(t, err, "right: no path, query or table given")
			},
		},
		{
			name:    "Query and table",
			trusted: true,
			req:     Request{Left: Descriptor{Query: "SELECT 1", Table: "t"}, Right: Descriptor{Path: right}},
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "left: query and table are mutually exclusive")
			},
		},
		{
			name:    "No database configured",
			trusted: true,
			req:     Request{Left: Descriptor{Path: left}, Right: Descriptor{Query: "SELECT 1"}},
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "right: no database is configured")
			},
		},
		{
			name:    "No storage configured",
			trusted: true,
			req:     Request{Left: Descriptor{Path: "s3://bucket/a.csv"}, Right: Descriptor{Path: right}},
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "left: object storage is not configured")
			},
		},
		{
			name:    "Negative max failures",
			trusted: true,
			req:     Request{Left: Descriptor{Path: left}, Right: Descriptor{Path: right}, MaxFailures: &negative},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "max_failures must not be negative")
			},
		},
		{
			name:    "Bad key order",
			trusted: true,
			req:     Request{Left: Descriptor{Path: left}, Right: Descriptor{Path: right}, KeyOrder: "random"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "unsupported key order")
			},
		},
		{
			name:    "Bad delimiter",
			trusted: true,
			req:     Request{Left: Descriptor{Path: left, Delimiter: "::"}, Right: Descriptor{Path: right}},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "must be a single character")
			},
		},
		{
			name:    "Missing file",
			trusted: true,
			req:     Request{Left: Descriptor{Path: left + ".missing"}, Right: Descriptor{Path: right}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
			},
		},
		{
			name:    "Unknown key column",
			trusted: true,
			req:     Request{Left: Descriptor{Path: left}, Right: Descriptor{Path: right}, KeyColumns: []string{"sku"}},
			check: func(t *testing.T, err error) {
				var keyErr *reconcile.KeyColumnError
				assert.ErrorAs(t, err, &keyErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(defaultConfig(), nil, nil, nil, zap.NewNop()).WithTrusted(tt.trusted)
			res, err := svc.Run(context.Background(), tt.req)
			assert.Nil(t, res)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestService_Spec(t *testing.T) {
	svc := NewService(defaultConfig(), nil, nil, nil, nil)

	spec, err := svc.Spec(Request{KeyColumns: []string{"id"}})
	require.NoError(t, err)
	assert.Equal(t, reconcile.KeyOrderText, spec.KeyOrder)
	assert.Equal(t, 1000, spec.MaxFailures)

	zero := 0
	spec, err = svc.Spec(Request{KeyOrder: "numeric", MaxFailures: &zero})
	require.NoError(t, err)
	assert.Equal(t, reconcile.KeyOrderNumeric, spec.KeyOrder)
	assert.Equal(t, 0, spec.MaxFailures)
}
