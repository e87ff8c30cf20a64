package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adeela565/ClickSafe/internal/domain"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Store implements the repository interfaces of the service packages.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for created_at and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps an open database handle.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{db: db, dialect: dialect, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to the database for the given driver name. SQLite
// connections always enable foreign keys and are limited to one writer.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, "", err
	}
	if dialect == SQLite && !strings.Contains(dsn, "foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports the store's SQL dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) q(query string) string { return s.dialect.Rebind(query) }

func (s *Store) timestamp() any { return s.dialect.timeArg(s.now()) }

// mapErr classifies constraint violations; other errors are wrapped with op.
func (s *Store) mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case s.dialect.isForeignKeyViolation(err):
		return fmt.Errorf("%s: referenced row missing: %w", op, domain.ErrNotFound)
	case s.dialect.isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// inClause returns "?, ?, ?" and the matching args.
func inClause(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}

func nullableString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
