// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: assigns every request a RayID, stored in the Fiber locals and echoed
//     in the X-Ray-ID response header for tracing.
//
// These middleware components are designed to be registered globally or per-route group
// in the main application setup.
package middleware
