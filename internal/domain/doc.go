// Package domain contains the core business entities of the task service:
// accounts, task lists, tasks and the links that bind an external chat
// identity to an account. It is independent of storage and transport.
package domain
