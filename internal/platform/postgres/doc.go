// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. The schema is managed with embedded goose
// migrations.
package postgres
