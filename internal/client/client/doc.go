// Package client contains the transport side of resumectl.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the auth flows, the profile and resume CRUD.
//  2. A concrete REST implementation (see HTTPClient) that attaches the access
//     token as a Bearer header, transparently refreshes it once when a call is
//     answered 401, and maps status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     SQLite session database with embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers come back as *APIError, which unwraps to ErrUnauthorized,
// ErrNotFound, ErrConflict, ErrBadRequest or ErrServer. Transport failures
// wrap ErrUnavailable.
package client
