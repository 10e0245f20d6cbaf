// Package main hosts the Waymark CLI entrypoint and command graph.
//
// The Cobra-based command tree covers manual check-ins, queue inspection and
// maintenance, persisted settings, configuration scaffolding, database health
// checks, and the foreground sync daemon. It centralizes configuration
// resolution and lazy database access so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
