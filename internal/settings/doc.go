// Package settings persists typed application configuration in the
// app_settings table. Reads tolerate malformed values by logging and
// returning the caller's default; writes are single-statement upserts that
// refresh last_modified. Keys are never deleted. The schema.version sentinel
// shares this table but is owned by the store package.
package settings
