// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying record store from the scheduling
// and aggregation logic, so the core stays independent of the database
// technology backing it.
package store
