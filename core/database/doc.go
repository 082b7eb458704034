// Package database handles connections to the relational databases used as
// query-backed comparison sources.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL and SQLite
// connections from the application's configuration.
//
// # Connect
//
// Connect opens and pings a connection pool sized for one streaming query per
// source. An in-memory SQLite database is limited to one connection, so only
// one query can stream from it at a time.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns for the dialect in use. The table
// source uses it to validate key columns before streaming a table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
//
//	columns, err := database.GetTableColumns(db, "orders")
package database
