// Package storetest provides migrated throwaway databases for tests.
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// NewSQLite opens a private in-memory SQLite database with the full schema
// applied. It is closed when the test ends.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.SQLite, dsn, dbx.NewRetrier(0, time.Millisecond, nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect(dbx.SQLite.Name))
	require.NoError(t, goose.UpContext(ctx, db, "sqlite"))

	return db
}
