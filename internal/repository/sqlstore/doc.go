// Package sqlstore is the relational persistence layer for departments,
// recipients, campaigns and events.
//
// One Store serves two dialects: PostgreSQL through lib/pq for production and
// SQLite through modernc.org/sqlite for single-file deployments and tests.
// Queries are written with '?' placeholders and rebound per dialect.
//
// Driver errors are wrapped with the operation name. Missing rows and
// foreign-key violations surface as domain.ErrNotFound; unique violations as
// domain.ErrConflict.
package sqlstore
