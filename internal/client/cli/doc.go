// Package cli provides the interactive WealFlow command-line client.
//
// It wires configuration, the local SQLite store, the HTTP API client and
// the client services, then runs a REPL. On start the previous session is
// restored from the local snapshot and confirmed with the server.
//
// Key features:
//   - Register / Login / Google sign-in / Logout, profile and password changes
//   - List, add, edit and delete transactions
//   - Dashboard and statistics over a time window
//   - CSV export, colour theme, first-run welcome
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
