// Package report renders comparison reports.
//
// Three formats are supported: a human readable text layout (the default),
// indented JSON and YAML. The text layout opens with the "Comparison Report"
// banner, lists the per-source row counts and outcome totals, the per-column
// difference counts, schema mismatches and finally the retained failing records.
package report
