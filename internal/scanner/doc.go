// Package scanner finds overdue tasks and schedules reminders for them.
//
// A scan never mutates task state. Running it again re-notifies every task
// that is still overdue, and overlapping scans may notify twice.
package scanner
