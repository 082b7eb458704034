// Package source implements the row sources compared by core/reconcile.
//
// Every source exposes its column names before the first record and then
// reads incrementally; none of them loads a whole file, object or result set.
//
// # Sources
//
//   - CSVFile: a delimited text file on the local file system.
//   - Object: a delimited text file in S3/MinIO, streamed through core/storage.
//   - Query: the result of a SQL query, executed through GORM.
//   - Table: a whole table ordered by the key columns.
//
// Table and a Query given its key columns leave sorting to the database, in
// the same order the engine checks keys in. Text order sorts the text form of
// each value byte-wise regardless of the column collation, so an INTEGER key
// comes back as 1, 10, 11, 2.
//
// Prefetch wraps any opener so that its source is read ahead on a separate
// goroutine while records keep their order.
//
// # Usage
//
//	left := source.NewCSVFile("orders.csv", source.CSVOptions{Delimiter: ';'})
//	right := source.NewQuery(source.Shared(db), "SELECT * FROM orders").SortedBy(reconcile.KeyOrderText, "id")
//	report, err := reconcile.Compare(ctx, spec, left, source.Prefetch(right, 256))
package source
