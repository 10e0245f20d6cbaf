// Package daemon supervises the background sync loop. It enforces
// single-instance execution with a file lock and recovers rows stranded
// mid-upload by a previous crash before starting the uploader.
package daemon
