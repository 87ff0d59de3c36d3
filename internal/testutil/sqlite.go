package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/alexanderramin/twelveweeks/internal/db"
)

// NewTestDB opens a migrated in-memory store that is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func NewTestUoW(conn *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(conn)
}

// TableFaultUoW behaves like the SQLite unit of work except that any write
// statement touching Table fails with Err. Reads are untouched, so it
// exercises rollback of the writes that ran before the failing one.
type TableFaultUoW struct {
	DB    *sql.DB
	Table string
	Err   error
}

func (u *TableFaultUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	inner := db.NewSQLiteUnitOfWork(u.DB)
	return inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &tableFault{DBTX: tx, table: u.Table, err: u.Err})
	})
}

type tableFault struct {
	db.DBTX
	table string
	err   error
}

func (f *tableFault) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.table) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
