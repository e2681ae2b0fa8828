// Package events implements the realtime notifier: an in-process registry of
// subscribers that receive a generic "tasks changed" signal whenever task
// state is written, plus the websocket endpoint web clients connect to.
//
// Delivery is best-effort and at-most-once. Subscribers only see events
// published while they are subscribed, and a subscriber whose buffer is full
// misses the event instead of slowing the publisher down.
package events
