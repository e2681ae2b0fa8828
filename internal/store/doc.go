// Package store declares the persistence contracts for users, task lists,
// tasks and identity links, the sentinel errors implementations must
// return, and a transaction helper shared by SQL implementations.
package store
