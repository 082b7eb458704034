// Package compare wires the reconciliation engine to concrete sources.
//
// A Request names two sides through Descriptors. The Service resolves each
// descriptor into a source opener (local file, s3 object, query or table),
// applies the configured defaults, runs the comparison and optionally mails
// the failing records. The same service backs the compare command and the
// POST /compare endpoint.
//
// # Trust
//
// Local files and request-supplied database URLs reach outside the configured
// backends, so the service only resolves them when built WithTrusted(true).
// The CLI is trusted; the HTTP API is trusted only when configured so.
package compare
