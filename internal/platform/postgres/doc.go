// Package postgres implements the store interfaces on PostgreSQL, accessed
// through database/sql with the pgx driver. Schema changes live in the
// embedded goose migrations under migrations/.
package postgres
