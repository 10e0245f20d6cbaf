// Package store owns the SQLite handle behind Waymark's durable state. Open
// constructs the single shared connection, creates every table and index
// idempotently, and applies forward-only migrations keyed off the
// schema.version sentinel in app_settings. Lazy provides a race-free
// one-time-initialization gate for callers that open on first use.
//
// Mutations that must be safe under concurrent callers are expressed as
// single set-scoped statements by the consuming packages; this package only
// supplies the shared handle plus bounded retry on SQLITE_BUSY.
package store
