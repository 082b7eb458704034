package source

import (
	"fmt"
	"strings"

	"tablecompare/core/database"
	"tablecompare/core/reconcile"

	"gorm.io/gorm"
)

// keyOrderBy builds an ORDER BY list that sorts rows by columns in the order
// the engine checks keys in. Text order compares the text form of each value
// byte by byte, with NULL as the empty string. Numeric order keeps the native
// order of the column and puts NULLs last.
func keyOrderBy(db *gorm.DB, columns []string, order reconcile.KeyOrder) string {
	parts := make([]string, 0, len(columns))
	for _, name := range columns {
		var b strings.Builder
		db.Dialector.QuoteTo(&b, name)
		col := b.String()

		if order == reconcile.KeyOrderNumeric {
			parts = append(parts, fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END, %s", col, col))
			continue
		}
		parts = append(parts, textKey(db.Dialector.Name(), col))
	}
	return strings.Join(parts, ", ")
}

func textKey(dialect, col string) string {
	switch dialect {
	case database.DriverMySQL:
		return fmt.Sprintf("CAST(COALESCE(%s, '') AS BINARY)", col)
	case database.DriverPostgres:
		return fmt.Sprintf(`COALESCE(CAST(%s AS TEXT), '') COLLATE "C"`, col)
	default:
		// SQLite compares text with the BINARY collation unless told otherwise.
		return fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '')", col)
	}
}

// numericTypes are fragments of column type names holding numbers.
var numericTypes = []string{"int", "dec", "numeric", "real", "double", "float", "serial", "number"}

func isNumericType(t string) bool {
	t = strings.ToLower(t)
	for _, n := range numericTypes {
		if strings.Contains(t, n) {
			return true
		}
	}
	return false
}
