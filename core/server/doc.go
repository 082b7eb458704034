// Package server holds the HTTP server configuration.
//
// The serve command builds the Fiber application; this package only defines
// the settings it reads: the listen port, the API key, whether requests may
// name local files and database URLs, and the request body limit.
package server
