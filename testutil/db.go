// Package testutil provides shared fixtures for integration tests against real
// Postgres and Redis. Every helper skips the calling test when its environment
// variable (TEST_DATABASE_URL, TEST_REDIS_URL) is unset, so `go test ./...`
// runs the unit tests alone on a machine without either service.
//
// The schema-touching tests share one database; run them with `go test -p 1`
// so TestMigrations does not drop tables under another package.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/itinerary/migrations"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// NewPool returns a pool on TEST_DATABASE_URL with every migration applied,
// schema and catalog seed included. Migrations run once per test binary.
// The pool is closed when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn(t, "TEST_DATABASE_URL"))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	migrateOnce.Do(func() {
		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()
		migrateErr = migrations.Up(ctx, db, slog.New(slog.DiscardHandler))
	})
	if migrateErr != nil {
		t.Fatalf("testutil.NewPool: migrate: %v", migrateErr)
	}
	return pool
}

// NewTx begins a transaction on a migrated pool and rolls it back when the
// test finishes, so each test sees the seeded catalog and nothing else.
// Repositories and TxRunner accept the pgx.Tx directly; nested units of work
// become savepoints.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := NewPool(t)

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

// NewSQLDB opens a *sql.DB on TEST_DATABASE_URL through the pgx driver, with
// no migrations applied. Goose needs database/sql; use it for migration tests.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", dsn(t, "TEST_DATABASE_URL"))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	return db
}

// NewRedis connects to TEST_REDIS_URL and flushes the selected logical DB, so
// point it at a DB reserved for tests.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	opt, err := redis.ParseURL(dsn(t, "TEST_REDIS_URL"))
	if err != nil {
		t.Fatalf("testutil.NewRedis: parse url: %v", err)
	}
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("testutil.NewRedis: flush: %v", err)
	}
	return rdb
}

func dsn(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", name)
	}
	return v
}
