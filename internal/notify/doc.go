// Package notify is the deferred notification dispatcher. Callers enqueue
// point-to-point messages about a task without waiting for delivery; a small
// worker pool resolves the account's linked chat and sends the rendered text.
//
// Delivery is at-most-once and best-effort: unlinked accounts are skipped,
// transport failures are logged and dropped, and nothing is retried.
package notify
