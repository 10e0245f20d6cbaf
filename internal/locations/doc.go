// Package locations persists captured GPS fixes in SQLite and exposes the
// delivery lifecycle the sync uploader drives.
//
// Enqueue validates coordinates, sanitizes auxiliary attributes, assigns a
// unique idempotency key, and reactively enforces the caller's queue ceiling.
// Eviction deletes oldest-first in two passes: safe rows (synced or
// rejected) before pending ones, and never touches rows that are syncing.
// Every mutation that must hold under concurrent callers is a single
// set-scoped statement, relying on SQLite's per-statement atomicity rather
// than application locking.
//
// Treat this package as the single source of truth for queue semantics; new
// statuses or columns belong in the store package's schema and migrations.
package locations
