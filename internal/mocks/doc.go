// Package mocks provides shared test doubles.
//
// Two styles live here. Function-field mocks (MockJWTService,
// MockPasswordVerifier) let a test script individual calls. The Memory*
// stores are small in-memory implementations of the store interfaces with
// the same observable semantics as the Postgres stores, including the
// compare-and-set completion and strict external ID uniqueness, so service
// tests can exercise real behavior without a database.
//
// Usage:
//
//	tasks := mocks.NewMemoryTaskStore()
//	links := mocks.NewMemoryIdentityLinkStore()
//	svc := service.NewTaskService(tasks, service.NewIdentityRegistry(links, nil), pub, notifier, nil)
package mocks
