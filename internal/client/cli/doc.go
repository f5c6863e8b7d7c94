// Package cli provides resumectl, the interactive command-line client of the
// resume builder API.
//
// It wires configuration, the local session database, the API services and
// an interactive REPL. A session saved by an earlier run is resumed at
// startup, and an expired access token is refreshed behind the scenes.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
