// Package client talks to the WealFlow HTTP API on behalf of the CLI and
// opens the local SQLite database.
//
// # Transport
//
// HTTPClient is a thin JSON-over-HTTP wrapper. Authentication is carried
// entirely by cookies the server sets (access_token, refresh_token); the
// client never reads or stores a bearer token. A PersistentJar mirrors those
// cookies into the local metadata table so a restarted CLI can resume the
// previous session.
//
// When a request comes back 401 the client calls POST /api/auth/refresh once
// and, if that succeeds, repeats the original request once. No other retries
// are made.
//
// # Errors
//
// Every method reports failures in one of these shapes:
//
//   - transport failure: wraps ErrUnavailable
//   - non-2xx status: *APIError carrying the server's message (or a generic
//     per-operation fallback when the body is unreadable); it unwraps to
//     ErrUnauthorized, ErrNotFound, ErrConflict, ErrBadRequest or ErrServer
//   - 2xx with an undecodable body: wraps ErrMalformedResponse
//
// Callers match with errors.Is / errors.As.
//
// # Local database
//
// InitDatabase opens (or creates) the SQLite file and applies the embedded
// goose migrations.
package client
