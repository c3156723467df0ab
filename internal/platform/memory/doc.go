// Package memory implements the store interfaces on in-process maps. It
// backs unit tests and the no-database development mode. Transactional
// semantics come from Transactor, which serializes writers with a single
// lock; per-key locking granularity is left to the SQL backend.
package memory
