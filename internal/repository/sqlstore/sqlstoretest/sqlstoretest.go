// Package sqlstoretest opens migrated in-memory SQLite stores for tests.
package sqlstoretest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore"
)

// New returns a Store backed by a fresh in-memory SQLite database with the
// schema applied. The database is closed when the test ends.
func New(t testing.TB, opts ...sqlstore.Option) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := sqlstore.Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = sqlstore.Migrate(ctx, db, dialect)
	require.NoError(t, err)

	return sqlstore.New(db, dialect, opts...)
}

// Clock is a deterministic clock that advances by Step on every read.
type Clock struct {
	mu   sync.Mutex
	t    time.Time
	Step time.Duration
}

// NewClock starts a clock at start advancing one second per read.
func NewClock(start time.Time) *Clock {
	return &Clock{t: start.UTC(), Step: time.Second}
}

// Now returns the current reading and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.Step)
	return now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t.UTC()
	c.mu.Unlock()
}
