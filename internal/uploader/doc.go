// Package uploader delivers queued locations to the configured remote
// endpoint. Each row is posted individually with its idempotency key so the
// server can deduplicate retries; response status decides whether the row is
// finalized, permanently rejected, or returned to the queue.
package uploader
